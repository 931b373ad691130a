package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mada_server_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "@daily", cfg.Calendar.ExpiryCron)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Повторная загрузка читает тот же файл.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
listen: ":9090"
jwt_secret: from-file
token_ttl: 2h
calendar:
  dday_limit: 5
  quota_mode: dday_only
  collision_mode: overlap
  expiry_cron: ""
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv(EnvJWTSecret, "from-env")
	t.Setenv(EnvDatabase, "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "/tmp/other.db", cfg.Database)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Calendar.ExpiryCron)
	require.NoError(t, cfg.Validate())

	opts := cfg.CalendarOptions()
	assert.Equal(t, 5, opts.DdayLimit)
	assert.Equal(t, services.QuotaDdayOnly, opts.QuotaMode)
	assert.Equal(t, services.CollisionOverlap, opts.CollisionMode)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.JWTSecret = "secret"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"quota mode", func(c *Config) { c.Calendar.QuotaMode = "some" }},
		{"collision mode", func(c *Config) { c.Calendar.CollisionMode = "fuzzy" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"cron", func(c *Config) { c.Calendar.ExpiryCron = "every day" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLogLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLogLevel("trace")
	assert.Error(t, err)
}
