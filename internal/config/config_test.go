package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	ConfigFileEnv,
	"POLYMARKET_DATA_API_URL", "MARKET", "FETCH_LIMIT", "HTTP_TIMEOUT_SECONDS",
	"REFRESH_INTERVAL_MS", "AUTO_REFRESH", "MIN_BET_USD", "LARGE_VALUE_USD",
	"WHALE_VALUE_USD", "ENABLE_TUI", "UI_REFRESH_MS", "LOG_LEVEL", "LOG_FILE",
}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 100, cfg.FetchLimit)
	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, 1.0, cfg.MinBetUSD)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARKET", "will-it-rain")
	t.Setenv("FETCH_LIMIT", "250")
	t.Setenv("REFRESH_INTERVAL_MS", "10000")
	t.Setenv("AUTO_REFRESH", "false")
	t.Setenv("MIN_BET_USD", "25")
	t.Setenv("ENABLE_TUI", "false")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "will-it-rain", cfg.Market)
	assert.Equal(t, 250, cfg.FetchLimit)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval)
	assert.False(t, cfg.AutoRefresh)
	assert.Equal(t, 25.0, cfg.MinBetUSD)
	assert.False(t, cfg.EnableTUI)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestLoad_RejectsValuesOutsideEnumerations(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"REFRESH_INTERVAL_MS", "3000"},
		{"MIN_BET_USD", "2"},
		{"FETCH_LIMIT", "0"},
		{"WHALE_VALUE_USD", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "tradeflow.yaml")
	t.Setenv("TEST_MARKET_SLUG", "election-2028")

	content := `
market: ${TEST_MARKET_SLUG}
fetch_limit: 50
refresh_interval_ms: 2000
min_bet_usd: 100
whale_value_usd: 25000
log_level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(ConfigFileEnv, path)
	// Environment still wins over the file.
	t.Setenv("FETCH_LIMIT", "75")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "election-2028", cfg.Market)
	assert.Equal(t, 75, cfg.FetchLimit)
	assert.Equal(t, 2*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 100.0, cfg.MinBetUSD)
	assert.Equal(t, 25000.0, cfg.WhaleValueUSD)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://data-api.polymarket.com", cfg.DataAPIURL)
	assert.True(t, cfg.AutoRefresh)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fetch_limit: [not an int"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.DataAPIURL = ""
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.UIRefreshRate = 0
	assert.Error(t, cfg.Validate())
}
