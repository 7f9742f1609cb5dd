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

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "public-portal", cfg.Lookup.DefaultSource)
	assert.Equal(t, "X-Lookup-Source", cfg.Lookup.SourceHeader)
	assert.Equal(t, []string{"public-portal"}, cfg.Lookup.Sources)
	assert.Equal(t, 5*time.Minute, cfg.Stats.CacheTTL)
	assert.False(t, cfg.Ledger.ReadOnly)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("LEDGER_READONLY", "true")
	t.Setenv("STATS_CACHE_TTL", "90s")
	t.Setenv("EXPORTS_SIGNED_URL_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://vanbang.example.edu, ,https://admin.example.edu")
	t.Setenv("LOOKUP_SOURCES", "public-portal, kiosk,mobile-app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.True(t, cfg.Ledger.ReadOnly)
	assert.Equal(t, 90*time.Second, cfg.Stats.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Exports.SignedURLTTL)
	assert.Equal(t, []string{"https://vanbang.example.edu", "https://admin.example.edu"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"public-portal", "kiosk", "mobile-app"}, cfg.Lookup.Sources)
}
