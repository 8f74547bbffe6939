// Package config loads application configuration from environment variables.
// A .env file in the working directory is read first when present; values
// already set in the environment win.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted in STORAGE_TYPE.
const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Config holds the runtime settings of the API server.
type Config struct {
	Env             string        // application environment (dev, prod, ...)
	Host            string        // interface to bind
	Port            string        // HTTP port to listen on
	StorageType     string        // mysql or memory
	DBUser          string        // database username
	DBPass          string        // database password (may be empty)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	DBAutoMigrate   bool          // create the players table on startup
	LogLevel        slog.Level    // minimum level written by the logger
	ShutdownTimeout time.Duration // grace period for in-flight requests
}

// Addr returns host:port for the HTTP listener.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads the server configuration. Database credentials are only
// required when the MySQL backend is selected.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getenv("APP_ENV", "dev"),
		Host:            getenv("HOST", "0.0.0.0"),
		Port:            getenv("PORT", "3001"),
		StorageType:     strings.ToLower(getenv("STORAGE_TYPE", StorageMySQL)),
		DBUser:          os.Getenv("DB_USER"),
		DBPass:          os.Getenv("DB_PASSWORD"),
		DBHost:          getenv("DB_HOST", "localhost"),
		DBPort:          getenv("DB_PORT", "3306"),
		DBName:          os.Getenv("DB_NAME"),
		DBAutoMigrate:   envBool("DB_AUTO_MIGRATE", false),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	level, err := parseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	switch cfg.StorageType {
	case StorageMemory:
	case StorageMySQL:
		if cfg.DBUser == "" {
			return Config{}, fmt.Errorf("missing required env var: DB_USER")
		}
		if cfg.DBName == "" {
			return Config{}, fmt.Errorf("missing required env var: DB_NAME")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_TYPE %q", cfg.StorageType)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
