package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "timetable", cfg.Database.DBName)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "5m", cfg.Redis.TTL)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
database:
  driver: memory
jwt:
  secret: from-file
redis:
  enabled: true
  addr: cache:6379
seed:
  enabled: true
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "database:\n  driver: memory\n"},
		{"unknown driver", "database:\n  driver: sqlite\njwt:\n  secret: s\n"},
		{"bad expiration", "database:\n  driver: memory\njwt:\n  secret: s\n  access_token_expiration: soon\n"},
		{"bad redis ttl", "database:\n  driver: memory\njwt:\n  secret: s\nredis:\n  enabled: true\n  ttl: later\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.DBName = "timetable"

	assert.Equal(t, "postgres://u:p@db:5432/timetable?sslmode=disable", cfg.GetPostgresConnectionString())
}

func TestEnvListAndErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)

	t.Setenv("REDIS_DB", "three")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestSetFromEnvDuration(t *testing.T) {
	var target struct {
		Wait time.Duration `env:"WAIT"`
	}
	t.Setenv("WAIT", "90s")
	require.NoError(t, applyEnv(&target))
	assert.Equal(t, 90*time.Second, target.Wait)
}
