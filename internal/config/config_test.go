package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("LABS_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Lab Manager API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, "labs.events", cfg.NATSSubject)
	require.Equal(t, 10, cfg.AuthRateLimit)
	require.True(t, cfg.AutoMigrate)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("LABS_JWT_SECRET", "secret")
	t.Setenv("LABS_APP_PORT", ":9090")
	t.Setenv("LABS_JWT_TTL", "2h")
	t.Setenv("LABS_DATABASE_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 2*time.Hour, cfg.JWTTTL)
	require.False(t, cfg.AutoMigrate)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("LABS_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("LABS_JWT_SECRET", "secret")
	t.Setenv("LABS_CATALOG_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
