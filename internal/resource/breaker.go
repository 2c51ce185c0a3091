// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/lectern/internal/breaker"
	"github.com/tomtom215/lectern/internal/recommend"
)

// BreakerStore guards a Store with a circuit breaker. Missing resources,
// malformed content and caller cancellations do not count against the
// backend's health.
type BreakerStore struct {
	inner   Store
	breaker *breaker.Breaker[*Resource]
}

// NewBreakerStore wraps inner. name labels the breaker metrics.
func NewBreakerStore(inner Store, name string, s breaker.Settings) *BreakerStore {
	s.IsSuccessful = healthyError
	return &BreakerStore{
		inner:   inner,
		breaker: breaker.New[*Resource](name, s),
	}
}

// Fetch runs the inner fetch through the breaker. Rejections surface as
// recommend.ErrResourceUnavailable.
func (s *BreakerStore) Fetch(ctx context.Context, name string, kind Kind) (*Resource, error) {
	res, err := s.breaker.Execute(func() (*Resource, error) {
		return s.inner.Fetch(ctx, name, kind)
	})
	if err != nil && breaker.IsRejected(err) {
		return nil, fmt.Errorf("%w: %s: %w", recommend.ErrResourceUnavailable, name, err)
	}
	return res, err
}

func healthyError(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnsupportedKind) ||
		errors.Is(err, recommend.ErrMalformedRecord) ||
		errors.Is(err, context.Canceled)
}
