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

	assert.Equal(t, "chamados", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "hd_session", cfg.Session.CookieName)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL())
	assert.Equal(t, "uploads", cfg.Storage.UploadRoot)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("STORAGE_UPLOAD_ROOT", "/var/lib/chamados/uploads")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "/var/lib/chamados/uploads", cfg.Storage.UploadRoot)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "nope")

	_, err := Load()
	assert.Error(t, err)
}

func TestSessionTTLNonPositiveFallsBack(t *testing.T) {
	assert.Equal(t, 12*time.Hour, SessionConfig{TTLMinutes: 0}.TTL())
	assert.Equal(t, 12*time.Hour, SessionConfig{TTLMinutes: -5}.TTL())
}
