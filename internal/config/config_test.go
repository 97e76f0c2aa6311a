package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval())
	assert.True(t, cfg.Cache.WarmSessions)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, 500, cfg.Cache.MaxSessions)
	assert.Equal(t, time.Minute, cfg.SessionCheckTTL())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
server:
  port: "9090"
  mode: production
backend:
  base_url: https://api.school.test
  timeout: 5s
jwt:
  secret: s3cret
cache:
  warm_sessions: false
  refresh_interval: 0s
  session_ttl: 10m
  max_sessions: 20
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("CACHE_WARM_SESSIONS", "yes")
	t.Setenv("CACHE_MAX_SESSIONS", "50")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.school.test", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout())
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval())
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL())
	assert.Equal(t, 50, cfg.Cache.MaxSessions)
	assert.True(t, cfg.Cache.WarmSessions)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "relative base url", env: map[string]string{"BACKEND_BASE_URL": "api/v1"}, want: "must be absolute"},
		{name: "bad timeout", env: map[string]string{"BACKEND_TIMEOUT": "soon"}, want: "invalid backend timeout"},
		{name: "bad bool", env: map[string]string{"CACHE_WARM_SESSIONS": "maybe"}, want: "invalid boolean"},
		{name: "bad session ttl", env: map[string]string{"CACHE_SESSION_TTL": "forever"}, want: "invalid cache session ttl"},
		{name: "negative max sessions", env: map[string]string{"CACHE_MAX_SESSIONS": "-1"}, want: "must not be negative"},
		{name: "production without jwt secret", env: map[string]string{"SERVER_MODE": "production"}, want: "jwt secret is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CAMPUSDESK_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("CAMPUSDESK_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CAMPUSDESK_TEST_MISSING", "fallback"))
}
