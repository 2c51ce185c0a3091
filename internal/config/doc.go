// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package config provides centralized configuration management for Lectern.

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/lectern/config.yaml or /etc/lectern/config.yml
 3. Environment variables listed in envMappings

Unmapped environment variables are ignored.

# Configuration Structure

  - ServerConfig: listener, HTTP timeouts, per-request timeout, environment
  - SecurityConfig: CORS origins and rate limiting
  - ResourcesConfig: storage backend, resource names, fetch timeout, breaker
  - RecommendConfig: strategy, top_n, slot_count, max_categories,
    candidate scope, catalog rule and optional remote model endpoint
  - LoggingConfig: level, format, caller

# Environment Variables

Server:
  - HTTP_PORT (default: 8080), HTTP_HOST (default: 0.0.0.0)
  - HTTP_REQUEST_TIMEOUT (default: 10s)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

Security:
  - CORS_ORIGINS: Comma-separated origins (default: *; rejected in production)
  - RATE_LIMIT_REQUESTS (default: 100), RATE_LIMIT_WINDOW (default: 1m)
  - DISABLE_RATE_LIMIT

Resources:
  - RESOURCE_BACKEND, MODEL_BACKEND: file, badger, redis or duckdb
  - RESOURCE_DIR, BADGER_PATH, DUCKDB_PATH
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_PREFIX, REDIS_TIMEOUT
  - MODEL_RESOURCE, CATEGORY_COUNTS_RESOURCE, HISTORY_RESOURCE, CATALOG_RESOURCE
  - RESOURCE_FETCH_TIMEOUT
  - BREAKER_ENABLED, BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT,
    BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO

Recommendation:
  - RECO_STRATEGY, RECO_TOP_N, RECO_SLOT_COUNT, RECO_MAX_CATEGORIES
  - RECO_CANDIDATE_SCOPE, RECO_SKIP_IMPOSSIBLE, RECO_CATALOG_RULE
  - RECO_MODEL_ENDPOINT, RECO_MODEL_TIMEOUT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Validate rejects out-of-range numbers, unknown enumerations and
inconsistent backend choices (for example a DuckDB model backend, which
cannot serve blobs) before the server starts.
*/
package config
