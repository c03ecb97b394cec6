// Package config provides configuration management for the WellTegra API.
//
// Configuration is loaded once at startup and passed by reference into the
// components that need it. Precedence (highest to lowest):
// flags > environment variables > config file > defaults.
package config

// Environment names recognized by the loader.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Config holds all service configuration options.
type Config struct {
	// Google Cloud
	ProjectID string `koanf:"project_id"`
	Dataset   string `koanf:"dataset"`
	Region    string `koanf:"region"`

	// HTTP server
	Port        int      `koanf:"port"`
	CORSOrigins []string `koanf:"cors_origins"`

	// Query defaults
	DefaultLimit        int `koanf:"default_limit"`
	MaxResults          int `koanf:"max_results"`
	QueryTimeoutSeconds int `koanf:"query_timeout_seconds"`

	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Warehouse WarehouseConfig `koanf:"warehouse"`
}

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	Enabled   bool `koanf:"enabled"`
	PerMinute int  `koanf:"per_minute"`
}

// WarehouseConfig selects and configures the warehouse backend.
// Type "bigquery" uses the project/dataset from the top-level config;
// the database/sql backends (duckdb, sqlite, postgres) run the same
// queries against a local mirror for development and testing.
type WarehouseConfig struct {
	Type     string `koanf:"type"`
	Database string `koanf:"database"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
}
