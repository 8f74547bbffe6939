package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticVerifier(t *testing.T) {
	v := StaticVerifier{Email: "ops@tiers.gg", Password: "hunter2"}

	assert.True(t, v.Verify("ops@tiers.gg", "hunter2"))
	assert.False(t, v.Verify("ops@tiers.gg", "Hunter2"))
	assert.False(t, v.Verify("OPS@tiers.gg", "hunter2"), "comparison is verbatim")
	assert.False(t, v.Verify("", ""))
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	v := BcryptVerifier{Email: "ops@tiers.gg", PasswordHash: hash}

	assert.True(t, v.Verify("ops@tiers.gg", "hunter2"))
	assert.False(t, v.Verify("ops@tiers.gg", "nope"))
	assert.False(t, v.Verify("other@tiers.gg", "hunter2"))
}

func TestLoadVerifier(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "cred.json")
	require.NoError(t, os.WriteFile(plain, []byte(`{"email":"ops@tiers.gg","password":"hunter2"}`), 0o600))
	v, err := LoadVerifier(plain)
	require.NoError(t, err)
	assert.IsType(t, StaticVerifier{}, v)
	assert.True(t, v.Verify("ops@tiers.gg", "hunter2"))

	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	hashed := filepath.Join(dir, "hashed.json")
	require.NoError(t, os.WriteFile(hashed, []byte(`{"email":"ops@tiers.gg","passwordHash":"`+hash+`"}`), 0o600))
	v, err = LoadVerifier(hashed)
	require.NoError(t, err)
	assert.IsType(t, BcryptVerifier{}, v)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"email":"ops@tiers.gg"}`), 0o600))
	_, err = LoadVerifier(empty)
	assert.Error(t, err)

	_, err = LoadVerifier(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCheckLogin(t *testing.T) {
	v := StaticVerifier{Email: "ops@tiers.gg", Password: "hunter2"}

	tests := []struct {
		name     string
		email    string
		password string
		want     LoginErrors
	}{
		{"ok", "ops@tiers.gg", "hunter2", LoginErrors{}},
		{"missing both", "", "", LoginErrors{Email: "Email is required", Password: "Password is required"}},
		{"bad email shape", "ops@tiers", "hunter2", LoginErrors{Email: "Please enter a valid email"}},
		{"email with spaces", "ops @tiers.gg", "x", LoginErrors{Email: "Please enter a valid email"}},
		{"wrong password", "ops@tiers.gg", "nope", LoginErrors{Email: "Invalid credentials", Password: "Invalid credentials"}},
		{"wrong email", "admin@tiers.gg", "hunter2", LoginErrors{Email: "Invalid credentials", Password: "Invalid credentials"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckLogin(v, tt.email, tt.password)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.OK(), got.OK())
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tierctl", "session")

	_, err := LoadSession(path, "secret")
	assert.ErrorIs(t, err, ErrNoSession)

	s, err := NewSession("secret", "ops@tiers.gg", time.Hour)
	require.NoError(t, err)
	require.NoError(t, SaveSession(path, s))

	loaded, err := LoadSession(path, "secret")
	require.NoError(t, err)
	assert.Equal(t, "ops@tiers.gg", loaded.Email)
	assert.WithinDuration(t, s.Exp, loaded.Exp, time.Second)

	_, err = LoadSession(path, "other-secret")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, ClearSession(path))
	require.NoError(t, ClearSession(path))
	_, err = LoadSession(path, "secret")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestExpiredSession(t *testing.T) {
	s, err := NewSession("secret", "ops@tiers.gg", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSession("secret", s.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secret")

	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
