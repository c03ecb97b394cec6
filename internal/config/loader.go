package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "welltegra.yaml"
	ConfigFileNameAlt = "welltegra.yml"
)

// EnvPrefix is the prefix for environment variable overrides.
// WELLTEGRA_PROJECT_ID maps to project_id; a double underscore
// separates nested keys, so WELLTEGRA_WAREHOUSE__TYPE maps to
// warehouse.type.
const EnvPrefix = "WELLTEGRA_"

// findConfigFile finds the config file to use.
// Priority: explicit path > welltegra.yaml > welltegra.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, an optional config file,
// environment variables, and flags. The flags parameter may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"project_id":            "portfolio-project-481815",
		"dataset":               "welltegra_historical",
		"region":                "us-central1",
		"port":                  8080,
		"cors_origins":          []string{"https://welltegra.network", "https://*.welltegra.network"},
		"default_limit":         50,
		"max_results":           1000,
		"query_timeout_seconds": 30,
		"environment":           EnvDevelopment,
		"log_level":             "info",
		"rate_limit.enabled":    false,
		"rate_limit.per_minute": 60,
		"warehouse.type":        "bigquery",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment variables (WELLTEGRA_ prefix)
	// Transform: WELLTEGRA_WAREHOUSE__TYPE -> warehouse.type
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvironmentOverrides adjusts settings for the selected environment.
// Development widens CORS for local frontends, testing switches to the
// test dataset, and production tightens timeouts and enables rate limiting.
func (c *Config) applyEnvironmentOverrides() {
	switch c.Environment {
	case EnvDevelopment:
		c.CORSOrigins = append(c.CORSOrigins,
			"http://localhost:3000",
			"http://localhost:8000",
			"http://localhost:8080",
		)
	case EnvTesting:
		if c.Dataset == "welltegra_historical" {
			c.Dataset = "welltegra_historical_test"
		}
	case EnvProduction:
		c.RateLimit.Enabled = true
		if c.QueryTimeoutSeconds > 10 {
			c.QueryTimeoutSeconds = 10
		}
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project_id must not be empty")
	}
	if c.Dataset == "" {
		return fmt.Errorf("dataset must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxResults < c.DefaultLimit {
		return fmt.Errorf("max_results (%d) must not be below default_limit (%d)", c.MaxResults, c.DefaultLimit)
	}
	switch c.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	return nil
}
