// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package config

import "time"

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Serving:
//     - Server: HTTP listener and per-request timeout
//     - Security: CORS and rate limiting
//
//  2. Inputs:
//     - Resources: Where the model and the three tables are read from
//
//  3. Composition:
//     - Recommend: Strategy and slot parameters
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Resources ResourcesConfig `koanf:"resources"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RequestTimeout bounds one recommendation call, including the
	// resource fetches it triggers.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// Environment mode: "development", "staging", "production"
	Environment string `koanf:"environment"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// ResourcesConfig selects the storage backends for the model blob and the
// input tables.
//
// Environment Variables:
//   - RESOURCE_BACKEND: file, badger, redis or duckdb (default: file)
//   - MODEL_BACKEND: Backend for the model blob when it differs
//   - RESOURCE_DIR: Directory of the file backend (default: /data/resources)
//   - BADGER_PATH: BadgerDB directory (empty = in-memory)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_PREFIX
//   - DUCKDB_PATH: DuckDB database file (empty = in-memory)
//   - RESOURCE_FETCH_TIMEOUT: Bound on one snapshot load (default: 30s)
type ResourcesConfig struct {
	Backend      string        `koanf:"backend"`
	ModelBackend string        `koanf:"model_backend"`
	Dir          string        `koanf:"dir"`
	BadgerPath   string        `koanf:"badger_path"`
	DuckDBPath   string        `koanf:"duckdb_path"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	Redis        RedisConfig   `koanf:"redis"`
	Names        NamesConfig   `koanf:"names"`
	Breaker      BreakerConfig `koanf:"breaker"`
}

// RedisConfig holds the Redis backend connection settings
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Prefix   string        `koanf:"prefix"`
	Timeout  time.Duration `koanf:"timeout"`
}

// NamesConfig holds the resource names of the snapshot inputs
type NamesConfig struct {
	Model          string `koanf:"model"`
	CategoryCounts string `koanf:"category_counts"`
	History        string `koanf:"history"`
	Catalog        string `koanf:"catalog"`
}

// BreakerConfig configures the circuit breaker placed in front of remote
// resource backends and the inference endpoint.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32        `koanf:"max_requests"`
	Interval    time.Duration `koanf:"interval"`
	Timeout     time.Duration `koanf:"timeout"`

	// The breaker trips once MinRequests have been seen in the interval and
	// the failure ratio reaches FailureRatio.
	MinRequests  uint32  `koanf:"min_requests"`
	FailureRatio float64 `koanf:"failure_ratio"`
}

// RecommendConfig holds the composition parameters.
//
// Environment Variables:
//   - RECO_STRATEGY: category or item (default: category)
//   - RECO_TOP_N: Ranked categories kept per user (default: 10)
//   - RECO_SLOT_COUNT: Articles per recommendation (default: 5)
//   - RECO_MAX_CATEGORIES: Distinct categories per recommendation (default: 5)
//   - RECO_CANDIDATE_SCOPE: history or catalog (default: history)
//   - RECO_SKIP_IMPOSSIBLE: Drop baseline-only predictions (default: true)
//   - RECO_CATALOG_RULE: CEL filter over catalog rows
//   - RECO_MODEL_ENDPOINT: Remote inference URL replacing the stored model
//   - RECO_MODEL_TIMEOUT: Remote inference timeout (default: 5s)
type RecommendConfig struct {
	Strategy       string        `koanf:"strategy"`
	TopN           int           `koanf:"top_n"`
	SlotCount      int           `koanf:"slot_count"`
	MaxCategories  int           `koanf:"max_categories"`
	CandidateScope string        `koanf:"candidate_scope"`
	SkipImpossible bool          `koanf:"skip_impossible"`
	CatalogRule    string        `koanf:"catalog_rule"`
	ModelEndpoint  string        `koanf:"model_endpoint"`
	ModelTimeout   time.Duration `koanf:"model_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// EffectiveModelBackend returns the backend that serves the model blob.
func (c *ResourcesConfig) EffectiveModelBackend() string {
	if c.ModelBackend != "" {
		return c.ModelBackend
	}
	return c.Backend
}

// Load reads the configuration. It is an alias of LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
