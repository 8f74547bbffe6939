// Package auth implements the operator login gate used by the tierctl client.
// The Player API itself is unauthenticated; this gate only decides whether
// the client will run its guarded commands.
package auth

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a submitted identifier/secret pair.
type Verifier interface {
	Verify(identifier, secret string) bool
}

// StaticVerifier compares both values verbatim against a single configured
// pair.
type StaticVerifier struct {
	Email    string
	Password string
}

func (v StaticVerifier) Verify(identifier, secret string) bool {
	return identifier == v.Email && secret == v.Password
}

// BcryptVerifier compares the identifier verbatim and the secret against a
// bcrypt hash.
type BcryptVerifier struct {
	Email        string
	PasswordHash string
}

func (v BcryptVerifier) Verify(identifier, secret string) bool {
	if identifier != v.Email {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(secret)) == nil
}

// HashPassword returns a bcrypt hash suitable for the passwordHash field of a
// credentials file.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Credentials is the on-disk shape of the credentials file:
//
//	{"email": "admin@example.com", "password": "..."}
//
// A passwordHash field may replace password to store a bcrypt hash instead.
type Credentials struct {
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Verifier picks the implementation matching the populated fields.
func (c Credentials) Verifier() (Verifier, error) {
	switch {
	case c.Email == "":
		return nil, fmt.Errorf("credentials: email is empty")
	case c.PasswordHash != "":
		return BcryptVerifier{Email: c.Email, PasswordHash: c.PasswordHash}, nil
	case c.Password != "":
		return StaticVerifier{Email: c.Email, Password: c.Password}, nil
	default:
		return nil, fmt.Errorf("credentials: neither password nor passwordHash is set")
	}
}

// LoadCredentials reads and parses a credentials file.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	return c, nil
}

// LoadVerifier reads a credentials file and returns its Verifier.
func LoadVerifier(path string) (Verifier, error) {
	c, err := LoadCredentials(path)
	if err != nil {
		return nil, err
	}
	return c.Verifier()
}
