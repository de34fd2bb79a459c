package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 512, cfg.Cache.Size)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadIgnoresUnparseableEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadPricingDefault(t *testing.T) {
	cfg, err := LoadPricing()
	require.NoError(t, err)
	assert.Equal(t, "US", cfg.DefaultZone)
}

func TestLoadPricingFromFile(t *testing.T) {
	doc := `{
		"zones": {"EU": {"code": "EU", "label": "Europa", "vat": 0, "duty_default": 0.03}},
		"default_zone": "EU",
		"weight_steps_kg": [1, 5],
		"freight_dkk": {"EU": [100, 200]},
		"service": {"rate": 0.1, "min_dkk": 40}
	}`
	path := filepath.Join(t.TempDir(), "pricing.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("PRICING_CONFIG", path)

	cfg, err := LoadPricing()
	require.NoError(t, err)
	assert.Equal(t, "EU", cfg.DefaultZone)
	assert.Equal(t, 200, cfg.Freight("EU", 3))
}

func TestLoadPricingRejectsInvalidTables(t *testing.T) {
	doc := `{
		"zones": {"EU": {"code": "EU"}},
		"default_zone": "EU",
		"weight_steps_kg": [5, 1],
		"freight_dkk": {"EU": [100, 200]},
		"service": {"rate": 0.1, "min_dkk": 40}
	}`
	path := filepath.Join(t.TempDir(), "pricing.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("PRICING_CONFIG", path)

	_, err := LoadPricing()
	assert.Error(t, err)
}
