// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package config

import (
	"fmt"
	"strings"
)

var (
	validLogLevels = map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	validLogFormats = map[string]bool{
		"json":    true,
		"console": true,
	}

	validEnvironments = map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}

	validBackends = map[string]bool{
		"file":   true,
		"badger": true,
		"redis":  true,
		"duckdb": true,
	}
)

// Rate limit bounds
const (
	minRateLimitReqs = 1
	maxRateLimitReqs = 100000
)

// Composition bounds
const (
	maxTopN          = 1000
	maxSlotCount     = 100
	maxMaxCategories = 100
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateResources(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must be positive")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("HTTP timeouts must not be negative")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// validateSecurity validates CORS and rate limiting
func (c *Config) validateSecurity() error {
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
			}
		}
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitReqs || c.Security.RateLimitReqs > maxRateLimitReqs {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitReqs, maxRateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validateResources validates the backend selection and its settings
func (c *Config) validateResources() error {
	r := &c.Resources
	if !validBackends[r.Backend] {
		return fmt.Errorf("RESOURCE_BACKEND must be one of: file, badger, redis, duckdb")
	}
	if r.ModelBackend != "" && !validBackends[r.ModelBackend] {
		return fmt.Errorf("MODEL_BACKEND must be one of: file, badger, redis, duckdb")
	}
	// DuckDB only serves tables.
	if r.EffectiveModelBackend() == "duckdb" && c.Recommend.ModelEndpoint == "" {
		return fmt.Errorf("MODEL_BACKEND cannot be duckdb; set MODEL_BACKEND or RECO_MODEL_ENDPOINT")
	}

	for _, backend := range []string{r.Backend, r.EffectiveModelBackend()} {
		switch backend {
		case "file":
			if strings.TrimSpace(r.Dir) == "" {
				return fmt.Errorf("RESOURCE_DIR is required for the file backend")
			}
		case "redis":
			if err := validateHostPort(r.Redis.Addr, "REDIS_ADDR"); err != nil {
				return err
			}
			if r.Redis.DB < 0 {
				return fmt.Errorf("REDIS_DB must not be negative")
			}
		}
	}

	if r.FetchTimeout <= 0 {
		return fmt.Errorf("RESOURCE_FETCH_TIMEOUT must be positive")
	}

	names := map[string]string{
		"MODEL_RESOURCE":           r.Names.Model,
		"CATEGORY_COUNTS_RESOURCE": r.Names.CategoryCounts,
		"HISTORY_RESOURCE":         r.Names.History,
		"CATALOG_RESOURCE":         r.Names.Catalog,
	}
	for env, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s must not be empty", env)
		}
	}

	return c.validateBreaker()
}

// validateBreaker validates circuit breaker settings (only if enabled)
func (c *Config) validateBreaker() error {
	b := c.Resources.Breaker
	if !b.Enabled {
		return nil
	}
	if b.MaxRequests < 1 {
		return fmt.Errorf("BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.MinRequests < 1 {
		return fmt.Errorf("BREAKER_MIN_REQUESTS must be at least 1")
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if b.Timeout <= 0 || b.Interval < 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive and BREAKER_INTERVAL not negative")
	}
	return nil
}

// validateRecommend validates the composition parameters
func (c *Config) validateRecommend() error {
	r := c.Recommend
	switch r.Strategy {
	case "category", "item":
	default:
		return fmt.Errorf("RECO_STRATEGY must be one of: category, item")
	}
	if r.TopN < 1 || r.TopN > maxTopN {
		return fmt.Errorf("RECO_TOP_N must be between 1 and %d", maxTopN)
	}
	if r.SlotCount < 1 || r.SlotCount > maxSlotCount {
		return fmt.Errorf("RECO_SLOT_COUNT must be between 1 and %d", maxSlotCount)
	}
	if r.MaxCategories < 1 || r.MaxCategories > maxMaxCategories {
		return fmt.Errorf("RECO_MAX_CATEGORIES must be between 1 and %d", maxMaxCategories)
	}
	switch r.CandidateScope {
	case "history", "catalog":
	default:
		return fmt.Errorf("RECO_CANDIDATE_SCOPE must be one of: history, catalog")
	}

	if r.ModelEndpoint != "" {
		if err := validateEndpointURL(r.ModelEndpoint, "RECO_MODEL_ENDPOINT"); err != nil {
			return err
		}
		if r.ModelTimeout <= 0 {
			return fmt.Errorf("RECO_MODEL_TIMEOUT must be positive when RECO_MODEL_ENDPOINT is set")
		}
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
