// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// ValueLogCollector matches *badger.DB's value log garbage collection.
type ValueLogCollector interface {
	RunValueLogGC(discardRatio float64) error
}

// BadgerGCConfig configures value log garbage collection.
type BadgerGCConfig struct {
	// Interval between collection cycles. Default: 10m
	Interval time.Duration

	// DiscardRatio is the fraction of a value log file that must be stale
	// before it is rewritten. Default: 0.5
	DiscardRatio float64

	// MaxRounds caps the files rewritten per cycle. Default: 10
	MaxRounds int
}

// BadgerGCService periodically reclaims BadgerDB value log space left by
// overwritten resources.
//
// Example usage:
//
//	svc := services.NewBadgerGCService(stores.Badger, services.BadgerGCConfig{}, logger)
//	tree.AddDataService(svc)
type BadgerGCService struct {
	db     ValueLogCollector
	config BadgerGCConfig
	logger zerolog.Logger
	name   string
}

// NewBadgerGCService creates a new value log GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerGCService(db ValueLogCollector, cfg BadgerGCConfig, logger zerolog.Logger) *BadgerGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.DiscardRatio <= 0 || cfg.DiscardRatio >= 1 {
		cfg.DiscardRatio = 0.5
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 10
	}
	return &BadgerGCService{
		db:     db,
		config: cfg,
		logger: logger.With().Str("service", "badger-gc").Logger(),
		name:   "badger-gc",
	}
}

// Serve implements the suture.Service interface.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Debug().
		Dur("interval", s.config.Interval).
		Float64("discard_ratio", s.config.DiscardRatio).
		Msg("badger gc service running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.collect(ctx); err != nil {
				return err
			}
		}
	}
}

// collect runs one cycle and returns the number of rewritten files.
// badger.ErrNoRewrite ends the cycle normally; badger.ErrRejected means the
// database is closing. In-memory databases have no value log to collect.
func (s *BadgerGCService) collect(ctx context.Context) (int, error) {
	rewritten := 0
	for rewritten < s.config.MaxRounds {
		if ctx.Err() != nil {
			return rewritten, nil
		}
		err := s.db.RunValueLogGC(s.config.DiscardRatio)
		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badger.ErrNoRewrite):
			return s.done(rewritten), nil
		case errors.Is(err, badger.ErrRejected):
			s.logger.Debug().Msg("value log gc rejected, database closing")
			return s.done(rewritten), nil
		case errors.Is(err, badger.ErrGCInMemoryMode):
			return 0, nil
		default:
			s.logger.Warn().Err(err).Msg("value log gc failed")
			return s.done(rewritten), err
		}
	}
	return s.done(rewritten), nil
}

func (s *BadgerGCService) done(rewritten int) int {
	if rewritten > 0 {
		s.logger.Info().Int("files", rewritten).Msg("value log gc reclaimed space")
	}
	return rewritten
}

// String returns the service name for logging.
func (s *BadgerGCService) String() string {
	return s.name
}
