// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Resource loading and model inference are reached through SnapshotSource
// and Predictor.

// Engine loads a snapshot per request and runs the configured strategy.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	strategy Strategy
	source   SnapshotSource
	logger   zerolog.Logger
	now      func() time.Time

	requestCount  atomic.Int64
	fallbackCount atomic.Int64
	errorCount    atomic.Int64
}

// Stats are cumulative engine counters.
type Stats struct {
	Requests  int64 `json:"requests"`
	Fallbacks int64 `json:"fallbacks"`
	Errors    int64 `json:"errors"`
}

// NewEngine creates an engine reading its inputs from source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source SnapshotSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, errors.New("snapshot source is required")
	}

	cfg = cfg.Clone()
	strategy, err := NewStrategy(cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:   cfg,
		strategy: strategy,
		source:   source,
		logger:   logger.With().Str("component", "recommend").Str("strategy", strategy.Name()).Logger(),
		now:      time.Now,
	}, nil
}

// Strategy returns the name of the active strategy.
func (e *Engine) Strategy() string {
	return e.strategy.Name()
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns the cumulative counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:  e.requestCount.Load(),
		Fallbacks: e.fallbackCount.Load(),
		Errors:    e.errorCount.Load(),
	}
}

// Recommend composes the recommendation for req.UserID.
//
// Load failures are returned wrapped in ErrResourceUnavailable unless they
// already carry ErrMalformedRecord. Cold start and exhausted categories are
// recovered and never returned as errors.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	e.requestCount.Add(1)
	logger := e.requestLogger(req)

	started := e.now()
	snap, err := e.source.Load(ctx)
	if err != nil {
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("snapshot load failed")
		return nil, classify("load snapshot", err)
	}
	loaded := e.now()

	result, trace, err := e.strategy.Compose(ctx, req.UserID, snap)
	if err != nil {
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("composition failed")
		return nil, classify("compose", err)
	}
	predicted := e.now()

	if trace.Path != PathModel {
		e.fallbackCount.Add(1)
	}

	logger.Debug().
		Str("path", string(trace.Path)).
		Int("candidates", trace.Candidates).
		Ints("slots", trace.Slots).
		Floats64("relative_weights", trace.RelativeWeights).
		Int("skipped_slots", trace.SkippedSlots).
		Ints("items", result.Items).
		Dur("load", loaded.Sub(started)).
		Dur("predict", predicted.Sub(loaded)).
		Msg("recommendation composed")

	return &Response{
		UserID:      req.UserID,
		Categories:  result.Categories,
		Items:       result.Items,
		StartedAt:   epochSeconds(started),
		LoadedAt:    epochSeconds(loaded),
		PredictedAt: epochSeconds(predicted),
		Strategy:    e.strategy.Name(),
		Trace:       trace,
	}, nil
}

// requestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: Request passed by value for immutability
func (e *Engine) requestLogger(req Request) zerolog.Logger {
	ctx := e.logger.With().Int("user_id", req.UserID)
	if req.RequestID != "" {
		ctx = ctx.Str("request_id", req.RequestID)
	}
	return ctx.Logger()
}

// classify wraps err so that it matches one of the fatal sentinels.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, ErrMalformedRecord), errors.Is(err, ErrResourceUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrResourceUnavailable, err)
	}
}

// epochSeconds converts t to fractional Unix seconds.
func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
