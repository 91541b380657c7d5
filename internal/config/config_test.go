package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30, cfg.Postgres.MaxOpen)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.ConnMaxLifetime)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Identity.Timeout)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.AllowCORSOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EVENTDESK_ENVIRONMENT", "production")
	t.Setenv("EVENTDESK_HTTP_PORT", "9090")
	t.Setenv("EVENTDESK_POSTGRES_DSN", "postgres://app@db.example.net:5432/events")
	t.Setenv("EVENTDESK_IDENTITY_BASEURL", "https://project.supabase.co")
	t.Setenv("EVENTDESK_ALLOWCORSORIGINS", "https://admin.example.edu,https://example.edu")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "postgres://app@db.example.net:5432/events", cfg.Postgres.DSN)
	assert.Equal(t, "https://project.supabase.co", cfg.Identity.BaseURL)
	assert.Equal(t, []string{"https://admin.example.edu", "https://example.edu"}, cfg.AllowCORSOrigins)
}
