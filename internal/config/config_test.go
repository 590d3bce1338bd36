package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/msomdec/campus-market/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "JWT_SECRET", "COOKIE_SECURE", "BCRYPT_COST",
		"EMAIL_SUFFIX", "IMAGE_STORE", "MONGO_URI", "MONGO_DATABASE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", secret)

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "campus-market.db", cfg.DatabasePath)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, config.ImageStoreSQLite, cfg.ImageStore)
	assert.Equal(t, "campus_market", cfg.MongoDatabase)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.EmailSuffix)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("PORT", "9000")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("EMAIL_SUFFIX", "@example.edu")
	t.Setenv("IMAGE_STORE", "GridFS")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, "@example.edu", cfg.EmailSuffix)
	assert.Equal(t, config.ImageStoreGridFS, cfg.ImageStore)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"cost not a number", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "high"}},
		{"cost too low", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "3"}},
		{"cost too high", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "15"}},
		{"unknown image store", map[string]string{"JWT_SECRET": secret, "IMAGE_STORE": "s3"}},
		{"gridfs without uri", map[string]string{"JWT_SECRET": secret, "IMAGE_STORE": "gridfs"}},
		{"bad log level", map[string]string{"JWT_SECRET": secret, "LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("PORT")
	t.Setenv("DATABASE_PATH", "from-env.db")

	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=" + secret + "\nPORT=7000\nDATABASE_PATH=from-file.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "from-env.db", cfg.DatabasePath, "environment wins over the file")
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", secret)

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}
