package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTSYNC_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5, cfg.RefreshIntervalMin)
	assert.Equal(t, "demo", cfg.FMPAPIKey)
	assert.Equal(t, "demo", cfg.FinnhubToken)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadBrokerSources(t *testing.T) {
	t.Setenv("PORTSYNC_DATA_DIR", t.TempDir())
	t.Setenv("SHEET_ID", "test-sheet")
	t.Setenv("WEBULL_GID", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Fidelity", "Webull", "Kraken"}, cfg.BrokerNames())

	require.Len(t, cfg.Brokers, 3)
	assert.Contains(t, cfg.Brokers[0].URL, "spreadsheets/d/test-sheet/export?format=csv&gid=0")
	assert.Contains(t, cfg.Brokers[1].URL, "gid=42")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORTSYNC_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("REFRESH_INTERVAL_MINUTES", "15")
	t.Setenv("FMP_API_KEY", "real-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 15, cfg.RefreshIntervalMin)
	assert.Equal(t, "real-key", cfg.FMPAPIKey)
}

func TestLoadBadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("PORTSYNC_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Brokers:            []BrokerSource{{Name: "Fidelity", URL: "https://example.test/csv"}},
		RefreshIntervalMin: 5,
	}
	assert.NoError(t, valid.Validate())

	noBrokers := &Config{RefreshIntervalMin: 5}
	assert.Error(t, noBrokers.Validate())

	badInterval := &Config{
		Brokers:            valid.Brokers,
		RefreshIntervalMin: 0,
	}
	assert.Error(t, badInterval.Validate())
}
