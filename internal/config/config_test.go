package config

import (
	"ev-route-service/internal/services"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, 5000.0, cfg.Routing.SnapRadiusMeters)
	assert.Equal(t, services.FirstOverlap, cfg.Engine.ConflictPolicy)
	assert.Equal(t, services.DefaultEngineConfig().DefaultVehicleID, cfg.Engine.DefaultVehicleID)
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
logging:
  level: debug
  format: console
engine:
  conflict_policy: clear-slot
  max_candidates: 6
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, services.ClearSlot, cfg.Engine.ConflictPolicy)
	assert.Equal(t, 6, cfg.Engine.MaxCandidates)
	// Untouched engine fields keep their defaults.
	assert.Equal(t, services.DefaultEngineConfig().TargetChargePercent, cfg.Engine.TargetChargePercent)
	assert.NotEmpty(t, cfg.Engine.Vehicles)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"cache": {"backend": "redis", "redis_addr": "localhost:6379", "ttl_seconds": 60}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, int64(60), int64(cfg.Cache.TTL().Seconds()))
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.toml", `port = 1`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EVR_SERVER__PORT", "7000")
	t.Setenv("EVR_ROUTING__API_KEY", "prefixed")
	t.Setenv("ORS_API_KEY", "legacy")
	t.Setenv("STATIONS_PATH", "/tmp/stations.json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "prefixed", cfg.Routing.APIKey)
	assert.Equal(t, "/tmp/stations.json", cfg.Store.StationsPath)
}

func TestLoadEnvNestedEngineKeys(t *testing.T) {
	t.Setenv("EVR_ENGINE__CONFLICT_POLICY", "clear-slot")
	t.Setenv("EVR_ENGINE__MAX_CANDIDATES", "6")
	t.Setenv("EVR_STORE__BACKEND", "postgres")
	t.Setenv("EVR_STORE__DATABASE_URL", "postgres://localhost/evroute")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, services.ClearSlot, cfg.Engine.ConflictPolicy)
	assert.Equal(t, 6, cfg.Engine.MaxCandidates)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/evroute", cfg.Store.DatabaseURL)
}

func TestLoadLegacyAPIKeyWhenPrefixedUnset(t *testing.T) {
	t.Setenv("EVR_SERVER__PORT", "7001")
	t.Setenv("ORS_API_KEY", "legacy")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "legacy", cfg.Routing.APIKey)
}

func TestLoadLegacyPort(t *testing.T) {
	t.Setenv("PORT", "5050")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown store", func(c *Config) { c.Store.Backend = "s3" }, "store.backend"},
		{"postgres without url", func(c *Config) { c.Store.Backend = "postgres" }, "store.database_url"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, "cache.redis_addr"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"bad engine", func(c *Config) { c.Engine.ConflictPolicy = "random" }, "conflict policy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestGet(t *testing.T) {
	t.Setenv("EVR_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("EVR_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("EVR_TEST_MISSING", "fallback"))
}
