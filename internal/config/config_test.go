package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"todoTracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoad тестирует чтение файла и значения по умолчанию
func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
repository:
  type: inmemory
auth:
  jwt_secret: file-secret
  token_ttl: 2h
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.GetServerAddr())
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, config.CacheMemory, cfg.Cache.Type)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, 5*time.Minute, cfg.Worker.SweepInterval)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: file-secret
`)
	t.Setenv("TODO_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("TODO_CACHE_TYPE", "redis")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.UsesRedis())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no secret", "repository:\n  type: inmemory\n"},
		{"postgres without url", "repository:\n  type: postgres\nauth:\n  jwt_secret: s\n"},
		{"unknown repository", "repository:\n  type: mongo\nauth:\n  jwt_secret: s\n"},
		{"unknown cache", "cache:\n  type: memcached\nauth:\n  jwt_secret: s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("TODO_SERVER_URL", "http://todo.internal:8080")

	cfg, err := config.LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, "http://todo.internal:8080", cfg.ServerURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}
