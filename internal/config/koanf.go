// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/lectern/config.yaml",
	"/etc/lectern/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Resources: ResourcesConfig{
			Backend:      "file",
			ModelBackend: "",
			Dir:          "/data/resources",
			BadgerPath:   "",
			DuckDBPath:   "",
			FetchTimeout: 30 * time.Second,
			Redis: RedisConfig{
				Addr:    "127.0.0.1:6379",
				DB:      0,
				Prefix:  "lectern",
				Timeout: 5 * time.Second,
			},
			Names: NamesConfig{
				Model:          "svd.json",
				CategoryCounts: "cat_rating_by_user.csv",
				History:        "articles_by_user.csv",
				Catalog:        "articles_metadata.csv",
			},
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     1 * time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Recommend: RecommendConfig{
			Strategy:       "category",
			TopN:           10,
			SlotCount:      5,
			MaxCategories:  5,
			CandidateScope: "history",
			SkipImpossible: true,
			CatalogRule:    "",
			ModelEndpoint:  "",
			ModelTimeout:   5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Config file (if found)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables
	// HTTP_PORT -> server.port, RECO_SLOT_COUNT -> recommend.slot_count
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_request_timeout":  "server.request_timeout",
	"environment":           "server.environment",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Resource mappings
	"resource_backend":         "resources.backend",
	"model_backend":            "resources.model_backend",
	"resource_dir":             "resources.dir",
	"badger_path":              "resources.badger_path",
	"duckdb_path":              "resources.duckdb_path",
	"resource_fetch_timeout":   "resources.fetch_timeout",
	"redis_addr":               "resources.redis.addr",
	"redis_password":           "resources.redis.password",
	"redis_db":                 "resources.redis.db",
	"redis_prefix":             "resources.redis.prefix",
	"redis_timeout":            "resources.redis.timeout",
	"model_resource":           "resources.names.model",
	"category_counts_resource": "resources.names.category_counts",
	"history_resource":         "resources.names.history",
	"catalog_resource":         "resources.names.catalog",

	// Circuit breaker mappings
	"breaker_enabled":       "resources.breaker.enabled",
	"breaker_max_requests":  "resources.breaker.max_requests",
	"breaker_interval":      "resources.breaker.interval",
	"breaker_timeout":       "resources.breaker.timeout",
	"breaker_min_requests":  "resources.breaker.min_requests",
	"breaker_failure_ratio": "resources.breaker.failure_ratio",

	// Recommendation mappings
	"reco_strategy":        "recommend.strategy",
	"reco_top_n":           "recommend.top_n",
	"reco_slot_count":      "recommend.slot_count",
	"reco_max_categories":  "recommend.max_categories",
	"reco_candidate_scope": "recommend.candidate_scope",
	"reco_skip_impossible": "recommend.skip_impossible",
	"reco_catalog_rule":    "recommend.catalog_rule",
	"reco_model_endpoint":  "recommend.model_endpoint",
	"reco_model_timeout":   "recommend.model_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - REDIS_ADDR -> resources.redis.addr
//   - RECO_STRATEGY -> recommend.strategy
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// cannot pollute the config.
	return ""
}
