// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/lectern/internal/breaker"
	"github.com/tomtom215/lectern/internal/recommend"
)

func tightSettings() breaker.Settings {
	return breaker.Settings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Hour,
		MinRequests:  2,
		FailureRatio: 0.5,
	}
}

func TestBreakerStore_OpensOnBackendFailures(t *testing.T) {
	inner := &stubStore{err: errors.New("connection refused")}
	store := NewBreakerStore(inner, "test-resource-open", tightSettings())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := store.Fetch(ctx, "svd.json", KindModel); err == nil {
			t.Fatalf("call %d: Fetch() error = nil", i)
		}
	}

	_, err := store.Fetch(ctx, "svd.json", KindModel)
	if !errors.Is(err, recommend.ErrResourceUnavailable) {
		t.Fatalf("Fetch() on open circuit error = %v, want ErrResourceUnavailable", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestBreakerStore_HealthyErrorsKeepCircuitClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: ErrNotFound},
		{name: "malformed", err: recommend.ErrMalformedRecord},
		{name: "canceled", err: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &stubStore{err: tt.err}
			store := NewBreakerStore(inner, "test-resource-"+tt.name, tightSettings())

			for i := 0; i < 5; i++ {
				_, err := store.Fetch(context.Background(), "x.csv", KindTable)
				if !errors.Is(err, tt.err) {
					t.Fatalf("call %d: Fetch() error = %v, want %v", i, err, tt.err)
				}
			}
			if inner.calls != 5 {
				t.Errorf("inner calls = %d, want 5 (circuit must stay closed)", inner.calls)
			}
		})
	}
}

func TestBreakerStore_PassesResourceThrough(t *testing.T) {
	want := &Resource{Name: "svd.json", Kind: KindModel, Blob: []byte("{}")}
	store := NewBreakerStore(&stubStore{res: want}, "test-resource-pass", tightSettings())

	got, err := store.Fetch(context.Background(), "svd.json", KindModel)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != want {
		t.Errorf("Fetch() = %p, want %p", got, want)
	}
}
