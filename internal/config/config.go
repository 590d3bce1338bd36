// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ImageStoreSQLite = "sqlite"
	ImageStoreGridFS = "gridfs"
)

type Config struct {
	Port          string
	DatabasePath  string
	JWTSecret     string
	CookieSecure  bool
	BcryptCost    int
	EmailSuffix   string
	ImageStore    string
	MongoURI      string
	MongoDatabase string
	LogLevel      slog.Level
}

// Load reads envFile if it exists, then builds a Config from the process
// environment. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          envOrDefault("PORT", "8080"),
		DatabasePath:  envOrDefault("DATABASE_PATH", "campus-market.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		// Default to secure cookies; disable only for local development.
		CookieSecure:  os.Getenv("COOKIE_SECURE") != "false",
		BcryptCost:    12,
		EmailSuffix:   os.Getenv("EMAIL_SUFFIX"),
		ImageStore:    strings.ToLower(envOrDefault("IMAGE_STORE", ImageStoreSQLite)),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: envOrDefault("MONGO_DATABASE", "campus_market"),
		LogLevel:      slog.LevelInfo,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		if parsed < 4 || parsed > 14 {
			return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", parsed)
		}
		cfg.BcryptCost = parsed
	}

	switch cfg.ImageStore {
	case ImageStoreSQLite:
	case ImageStoreGridFS:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required when IMAGE_STORE=gridfs")
		}
	default:
		return nil, fmt.Errorf("IMAGE_STORE must be %q or %q, got %q", ImageStoreSQLite, ImageStoreGridFS, cfg.ImageStore)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
