// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// BrokerSource identifies one holdings source: a broker name and the URL of
// its spreadsheet CSV export. The order of sources is significant - it is the
// order brokers appear in the summary, and the first source is the primary
// feed probed before a refresh cycle.
type BrokerSource struct {
	Name string
	URL  string
}

// Config holds application configuration
type Config struct {
	DataDir            string // Base directory for databases (always absolute)
	Port               int
	DevMode            bool
	LogLevel           string
	SheetID            string
	Brokers            []BrokerSource
	RefreshIntervalMin int // Full refresh cadence in minutes

	// Quote provider credentials. The free "demo" tiers work for the
	// handful of symbols a personal portfolio holds.
	FMPAPIKey          string
	TwelveDataAPIKey   string
	FinnhubToken       string
	AlphaVantageAPIKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("PORTSYNC_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	sheetID := getEnv("SHEET_ID", "1R5pa0GFV9vFdq3mZIXuporAn4xb-de8qVJR_RuhF6n0")

	cfg := &Config{
		DataDir:            absDataDir,
		Port:               getEnvAsInt("PORT", 8080),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SheetID:            sheetID,
		Brokers:            loadBrokerSources(sheetID),
		RefreshIntervalMin: getEnvAsInt("REFRESH_INTERVAL_MINUTES", 5),
		FMPAPIKey:          getEnv("FMP_API_KEY", "demo"),
		TwelveDataAPIKey:   getEnv("TWELVEDATA_API_KEY", "demo"),
		FinnhubToken:       getEnv("FINNHUB_TOKEN", "demo"),
		AlphaVantageAPIKey: getEnv("ALPHAVANTAGE_API_KEY", "demo"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("at least one broker source is required")
	}
	if c.RefreshIntervalMin <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %d", c.RefreshIntervalMin)
	}
	return nil
}

// BrokerNames returns the configured broker names in fixed order.
func (c *Config) BrokerNames() []string {
	names := make([]string, len(c.Brokers))
	for i, b := range c.Brokers {
		names[i] = b.Name
	}
	return names
}

// loadBrokerSources builds the per-broker CSV export URLs.
// Each broker maps to one tab (gid) of the holdings spreadsheet.
func loadBrokerSources(sheetID string) []BrokerSource {
	exportURL := func(gid string) string {
		return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", sheetID, gid)
	}

	return []BrokerSource{
		{Name: "Fidelity", URL: exportURL(getEnv("FIDELITY_GID", "0"))},
		{Name: "Webull", URL: exportURL(getEnv("WEBULL_GID", "1045159326"))},
		{Name: "Kraken", URL: exportURL(getEnv("KRAKEN_GID", "606581791"))},
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
