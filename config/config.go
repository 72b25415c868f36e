package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// DataSource selects how the dashboard obtains its dataset. The set is
// closed: variants are picked by explicit configuration, never by runtime
// string dispatch elsewhere in the code.
type DataSource string

const (
	DataSourceSynthetic DataSource = "synthetic"
	DataSourceDatabase  DataSource = "database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP server configuration
	HTTPAddr string

	// Dataset configuration. Seed is honored only when SeedSet is true;
	// otherwise every refresh draws fresh content.
	CustomerRows  int
	RevenueMonths int
	Seed          int64
	SeedSet       bool
	DataSource    DataSource

	// Dashboard configuration
	RefreshInterval     time.Duration // 0 disables scheduled refresh
	ChurnAlertThreshold float64
	HighRiskLimit       int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Defaults
		HTTPAddr:            ":8080",
		CustomerRows:        1000,
		RevenueMonths:       12,
		DataSource:          DataSourceSynthetic,
		RefreshInterval:     15 * time.Minute,
		ChurnAlertThreshold: 0.7,
		HighRiskLimit:       10,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		config.HTTPAddr = addr
	}
	if rows := os.Getenv("CUSTOMER_ROWS"); rows != "" {
		parsed, err := strconv.Atoi(rows)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("CUSTOMER_ROWS must be a positive integer, got %q", rows)
		}
		config.CustomerRows = parsed
	}
	if months := os.Getenv("REVENUE_MONTHS"); months != "" {
		parsed, err := strconv.Atoi(months)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("REVENUE_MONTHS must be a positive integer, got %q", months)
		}
		config.RevenueMonths = parsed
	}
	if seed := os.Getenv("DATA_SEED"); seed != "" {
		parsed, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("DATA_SEED must be an integer, got %q", seed)
		}
		config.Seed = parsed
		config.SeedSet = true
	}
	if source := os.Getenv("DATA_SOURCE"); source != "" {
		switch DataSource(source) {
		case DataSourceSynthetic, DataSourceDatabase:
			config.DataSource = DataSource(source)
		default:
			return nil, fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", DataSourceSynthetic, DataSourceDatabase, source)
		}
	}
	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("REFRESH_INTERVAL must be a non-negative duration, got %q", interval)
		}
		config.RefreshInterval = parsed
	}
	if threshold := os.Getenv("CHURN_ALERT_THRESHOLD"); threshold != "" {
		parsed, err := strconv.ParseFloat(threshold, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return nil, fmt.Errorf("CHURN_ALERT_THRESHOLD must be in [0, 1], got %q", threshold)
		}
		config.ChurnAlertThreshold = parsed
	}
	if limit := os.Getenv("HIGH_RISK_LIMIT"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("HIGH_RISK_LIMIT must be a positive integer, got %q", limit)
		}
		config.HighRiskLimit = parsed
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// The database-backed loader cannot run without a connection string;
		// the synthetic loader needs none.
		if config.DataSource == DataSourceDatabase && config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=%s", DataSourceDatabase)
		}
	}

	return config, nil
}
