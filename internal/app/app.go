// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lectern/internal/breaker"
	"github.com/tomtom215/lectern/internal/config"
	"github.com/tomtom215/lectern/internal/inference"
	"github.com/tomtom215/lectern/internal/recommend"
	"github.com/tomtom215/lectern/internal/resource"
	"github.com/tomtom215/lectern/internal/snapshot"
)

// Components holds the recommendation pipeline.
type Components struct {
	Stores *resource.Stores
	Loader *snapshot.Loader
	Engine *recommend.Engine
}

// Close releases the resource backends.
func (c *Components) Close() error {
	if c == nil || c.Stores == nil {
		return nil
	}
	return c.Stores.Close()
}

// Open opens the resource backends and builds the engine. Callers must
// Close the result.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Components, error) {
	stores, err := resource.Open(ctx, ResourceOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("open resources: %w", err)
	}

	loader, err := snapshot.NewLoader(stores.Store, LoaderOptions(cfg))
	if err != nil {
		stores.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("create snapshot loader: %w", err)
	}

	engine, err := recommend.NewEngine(EngineConfig(cfg), loader, logger)
	if err != nil {
		stores.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("create engine: %w", err)
	}

	logger.Info().
		Str("strategy", engine.Strategy()).
		Int("slot_count", cfg.Recommend.SlotCount).
		Str("candidate_scope", cfg.Recommend.CandidateScope).
		Bool("remote_model", cfg.Recommend.ModelEndpoint != "").
		Bool("catalog_rule", cfg.Recommend.CatalogRule != "").
		Msg("recommendation engine initialized")

	return &Components{Stores: stores, Loader: loader, Engine: engine}, nil
}

// EngineConfig maps the recommend section onto the engine config.
func EngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	return &recommend.Config{
		Strategy:       rc.Strategy,
		TopN:           rc.TopN,
		SlotCount:      rc.SlotCount,
		MaxCategories:  rc.MaxCategories,
		CandidateScope: rc.CandidateScope,
		SkipImpossible: rc.SkipImpossible,
	}
}

// ResourceOptions maps the resources section onto resource.Options.
func ResourceOptions(cfg *config.Config) resource.Options {
	rc := cfg.Resources
	return resource.Options{
		Backend:      rc.Backend,
		ModelBackend: rc.ModelBackend,
		Dir:          rc.Dir,
		BadgerPath:   rc.BadgerPath,
		Redis: resource.RedisOptions{
			Addr:     rc.Redis.Addr,
			Password: rc.Redis.Password,
			DB:       rc.Redis.DB,
			Timeout:  rc.Redis.Timeout,
		},
		RedisPrefix: rc.Redis.Prefix,
		DuckDBPath:  rc.DuckDBPath,
		Breaker:     BreakerSettings(&rc.Breaker),
	}
}

// LoaderOptions maps resource names, the fetch timeout, the catalog
// rule and the optional remote model onto snapshot.Options.
func LoaderOptions(cfg *config.Config) snapshot.Options {
	names := cfg.Resources.Names
	opts := snapshot.Options{
		Names: snapshot.Names{
			Model:          names.Model,
			CategoryCounts: names.CategoryCounts,
			History:        names.History,
			Catalog:        names.Catalog,
		},
		FetchTimeout: cfg.Resources.FetchTimeout,
		CatalogRule:  cfg.Recommend.CatalogRule,
	}

	if endpoint := cfg.Recommend.ModelEndpoint; endpoint != "" {
		var httpOpts []inference.HTTPOption
		if s := BreakerSettings(&cfg.Resources.Breaker); s != nil {
			httpOpts = append(httpOpts, inference.WithBreakerSettings(*s))
		}
		opts.Provider = inference.NewHTTPProvider(endpoint, cfg.Recommend.ModelTimeout, httpOpts...)
	}

	return opts
}

// BreakerSettings returns nil when the breaker is disabled.
func BreakerSettings(bc *config.BreakerConfig) *breaker.Settings {
	if !bc.Enabled {
		return nil
	}
	return &breaker.Settings{
		MaxRequests:  bc.MaxRequests,
		Interval:     bc.Interval,
		Timeout:      bc.Timeout,
		MinRequests:  bc.MinRequests,
		FailureRatio: bc.FailureRatio,
	}
}

// ModelSource reports where predictions come from: "remote" or "stored".
func ModelSource(cfg *config.Config) string {
	if cfg.Recommend.ModelEndpoint != "" {
		return "remote"
	}
	return "stored"
}
