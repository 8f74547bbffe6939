package cli

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/iliyamo/combat-tiers/internal/auth"
)

var errNoCredentials = errors.New("no operator credentials configured: set TIERCTL_CREDENTIALS or TIERCTL_ADMIN_EMAIL and TIERCTL_ADMIN_PASSWORD")

// Config holds CLI configuration.
type Config struct {
	ServerURL   string
	SessionFile string
	SecretFile  string
	Credentials string
	Output      string
	SessionTTL  time.Duration
}

// DefaultConfig returns a Config populated from TIERCTL_* variables.
func DefaultConfig() *Config {
	ttl, err := time.ParseDuration(os.Getenv("TIERCTL_SESSION_TTL"))
	if err != nil || ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Config{
		ServerURL:   getEnvOrDefault("TIERCTL_SERVER", "http://localhost:3001"),
		SessionFile: getEnvOrDefault("TIERCTL_SESSION_FILE", defaultPath("session")),
		SecretFile:  getEnvOrDefault("TIERCTL_SECRET_FILE", defaultPath("secret")),
		Credentials: os.Getenv("TIERCTL_CREDENTIALS"),
		Output:      "text",
		SessionTTL:  ttl,
	}
}

// Verifier returns the credential check used by `tierctl login`. A
// credentials file wins over the TIERCTL_ADMIN_* variables.
func (c *Config) Verifier() (auth.Verifier, error) {
	if c.Credentials != "" {
		return auth.LoadVerifier(c.Credentials)
	}
	creds := auth.Credentials{
		Email:        os.Getenv("TIERCTL_ADMIN_EMAIL"),
		Password:     os.Getenv("TIERCTL_ADMIN_PASSWORD"),
		PasswordHash: os.Getenv("TIERCTL_ADMIN_PASSWORD_HASH"),
	}
	if creds.Email == "" {
		return nil, errNoCredentials
	}
	return creds.Verifier()
}

// SessionSecret returns TIERCTL_SESSION_SECRET, or the per-user secret file.
func (c *Config) SessionSecret() (string, error) {
	if s := os.Getenv("TIERCTL_SESSION_SECRET"); s != "" {
		return s, nil
	}
	return auth.LoadOrCreateSecret(c.SecretFile)
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tierctl", name)
	}
	return filepath.Join(home, ".tierctl", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
