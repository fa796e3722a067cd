// Package config handles loading and validating configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/polyinsider/tradeflow/internal/metrics"
	"github.com/polyinsider/tradeflow/internal/poller"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML config file.
const ConfigFileEnv = "TRADEFLOW_CONFIG"

// Config holds all configuration values for the tradeflow dashboard.
type Config struct {
	// Polymarket Data API
	DataAPIURL  string        `yaml:"data_api_url"`
	Market      string        `yaml:"market"` // optional market slug filter
	FetchLimit  int           `yaml:"fetch_limit"`
	HTTPTimeout time.Duration `yaml:"-"`

	// Polling
	RefreshInterval time.Duration `yaml:"-"`
	AutoRefresh     bool          `yaml:"auto_refresh"`

	// Filters and highlighting
	MinBetUSD     float64 `yaml:"min_bet_usd"`
	LargeValueUSD float64 `yaml:"large_value_usd"`
	WhaleValueUSD float64 `yaml:"whale_value_usd"`

	// UI
	EnableTUI     bool          `yaml:"enable_tui"`
	UIRefreshRate time.Duration `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// fileConfig mirrors the YAML layout; durations are given in whole units.
type fileConfig struct {
	Config             `yaml:",inline"`
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
	RefreshIntervalMS  int `yaml:"refresh_interval_ms"`
	UIRefreshMS        int `yaml:"ui_refresh_ms"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		DataAPIURL:      "https://data-api.polymarket.com",
		FetchLimit:      100,
		HTTPTimeout:     10 * time.Second,
		RefreshInterval: 5 * time.Second,
		AutoRefresh:     true,
		MinBetUSD:       1,
		LargeValueUSD:   1000,
		WhaleValueUSD:   10000,
		EnableTUI:       true,
		UIRefreshRate:   time.Second,
		LogLevel:        "INFO",
		LogFile:         "tradeflow.log",
	}
}

// Load reads configuration with the following priority order:
// environment variables > .env file > YAML file named by TRADEFLOW_CONFIG > hardcoded defaults
func Load() (*Config, error) {
	// Attempt to load .env file (ignore error if not found)
	_ = godotenv.Load()

	base := Defaults()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		fromFile, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		base = fromFile
	}

	cfg := &Config{
		// Polymarket
		DataAPIURL:  getEnv("POLYMARKET_DATA_API_URL", base.DataAPIURL),
		Market:      getEnv("MARKET", base.Market),
		FetchLimit:  getEnvInt("FETCH_LIMIT", base.FetchLimit),
		HTTPTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", int(base.HTTPTimeout/time.Second))) * time.Second,

		// Polling
		RefreshInterval: time.Duration(getEnvInt("REFRESH_INTERVAL_MS", int(base.RefreshInterval/time.Millisecond))) * time.Millisecond,
		AutoRefresh:     getEnvBool("AUTO_REFRESH", base.AutoRefresh),

		// Filters
		MinBetUSD:     getEnvFloat("MIN_BET_USD", base.MinBetUSD),
		LargeValueUSD: getEnvFloat("LARGE_VALUE_USD", base.LargeValueUSD),
		WhaleValueUSD: getEnvFloat("WHALE_VALUE_USD", base.WhaleValueUSD),

		// UI
		EnableTUI:     getEnvBool("ENABLE_TUI", base.EnableTUI),
		UIRefreshRate: time.Duration(getEnvInt("UI_REFRESH_MS", int(base.UIRefreshRate/time.Millisecond))) * time.Millisecond,

		// Logging
		LogLevel: getEnv("LOG_LEVEL", base.LogLevel),
		LogFile:  getEnv("LOG_FILE", base.LogFile),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile reads a YAML config file on top of the defaults, expanding ${VAR}
// references from the environment. Keys missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	def := Defaults()
	fc := fileConfig{
		Config:             *def,
		HTTPTimeoutSeconds: int(def.HTTPTimeout / time.Second),
		RefreshIntervalMS:  int(def.RefreshInterval / time.Millisecond),
		UIRefreshMS:        int(def.UIRefreshRate / time.Millisecond),
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	cfg := fc.Config
	cfg.HTTPTimeout = time.Duration(fc.HTTPTimeoutSeconds) * time.Second
	cfg.RefreshInterval = time.Duration(fc.RefreshIntervalMS) * time.Millisecond
	cfg.UIRefreshRate = time.Duration(fc.UIRefreshMS) * time.Millisecond

	return &cfg, nil
}

// Validate checks that required configuration values are set and valid.
func (c *Config) Validate() error {
	if c.DataAPIURL == "" {
		return fmt.Errorf("POLYMARKET_DATA_API_URL is required")
	}

	if c.FetchLimit < 1 {
		return fmt.Errorf("FETCH_LIMIT must be at least 1")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}

	if !poller.ValidInterval(c.RefreshInterval) {
		return fmt.Errorf("REFRESH_INTERVAL_MS must be one of 1000, 2000, 5000, 10000, 30000 (got %d)",
			c.RefreshInterval.Milliseconds())
	}

	if !metrics.ValidThreshold(c.MinBetUSD) {
		return fmt.Errorf("MIN_BET_USD must be one of 1, 5, 10, 25, 50, 100, 250, 500, 1000 (got %v)", c.MinBetUSD)
	}

	if c.LargeValueUSD <= 0 {
		return fmt.Errorf("LARGE_VALUE_USD must be positive")
	}

	if c.WhaleValueUSD <= 0 {
		return fmt.Errorf("WHALE_VALUE_USD must be positive")
	}

	if c.UIRefreshRate <= 0 {
		return fmt.Errorf("UI_REFRESH_MS must be positive")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as a float64 or returns a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean or returns a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
