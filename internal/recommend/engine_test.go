// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// staticSource returns fresh snapshots built by a function.
func staticSource(build func() *Snapshot) SnapshotSource {
	return SnapshotSourceFunc(func(ctx context.Context) (*Snapshot, error) {
		return build(), nil
	})
}

func failingSource(err error) SnapshotSource {
	return SnapshotSourceFunc(func(ctx context.Context) (*Snapshot, error) {
		return nil, err
	})
}

func TestNewEngine(t *testing.T) {
	source := staticSource(func() *Snapshot { return fixtureSnapshot(categoryModel()) })

	tests := []struct {
		name    string
		cfg     *Config
		source  SnapshotSource
		wantErr bool
	}{
		{name: "nil config uses defaults", cfg: nil, source: source},
		{name: "valid config", cfg: DefaultConfig(), source: source},
		{name: "missing source", cfg: DefaultConfig(), source: nil, wantErr: true},
		{name: "invalid config", cfg: &Config{Strategy: StrategyCategory}, source: source, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.cfg, tt.source, zerolog.Nop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && engine.Strategy() != StrategyCategory {
				t.Errorf("Strategy() = %q, want %q", engine.Strategy(), StrategyCategory)
			}
		})
	}
}

func TestEngine_Recommend(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), staticSource(func() *Snapshot {
		return fixtureSnapshot(categoryModel())
	}), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	base := time.Unix(1700000000, 0)
	tick := 0
	engine.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 250 * time.Millisecond)
	}

	resp, err := engine.Recommend(context.Background(), Request{UserID: 7, RequestID: "req-1"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if resp.UserID != 7 {
		t.Errorf("UserID = %d, want 7", resp.UserID)
	}
	if !reflect.DeepEqual(resp.Items, []int{302, 303, 304, 502}) {
		t.Errorf("Items = %v", resp.Items)
	}
	if !reflect.DeepEqual(resp.Categories, []int{3, 5}) {
		t.Errorf("Categories = %v", resp.Categories)
	}
	if resp.StartedAt != 1700000000.25 || resp.LoadedAt != 1700000000.5 || resp.PredictedAt != 1700000000.75 {
		t.Errorf("timestamps = %v %v %v", resp.StartedAt, resp.LoadedAt, resp.PredictedAt)
	}
	if resp.Strategy != StrategyCategory {
		t.Errorf("Strategy = %q", resp.Strategy)
	}
	if resp.Trace.SkippedSlots != 1 {
		t.Errorf("SkippedSlots = %d, want 1", resp.Trace.SkippedSlots)
	}
	if stats := engine.Stats(); stats.Requests != 1 || stats.Errors != 0 || stats.Fallbacks != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestEngine_Recommend_Idempotent(t *testing.T) {
	for _, strategy := range []string{StrategyCategory, StrategyItem} {
		t.Run(strategy, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Strategy = strategy
			engine, err := NewEngine(cfg, staticSource(func() *Snapshot {
				return fixtureSnapshot(categoryModel())
			}), zerolog.Nop())
			if err != nil {
				t.Fatalf("NewEngine() error = %v", err)
			}

			first, err := engine.Recommend(context.Background(), Request{UserID: 7})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			second, err := engine.Recommend(context.Background(), Request{UserID: 7})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !reflect.DeepEqual(first.Items, second.Items) || !reflect.DeepEqual(first.Categories, second.Categories) {
				t.Errorf("results differ: %v/%v vs %v/%v", first.Items, first.Categories, second.Items, second.Categories)
			}
		})
	}
}

func TestEngine_Recommend_FallbackNonEmpty(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), staticSource(func() *Snapshot {
		return fixtureSnapshot(&mockPredictor{impossible: map[int]bool{7: true}})
	}), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	resp, err := engine.Recommend(context.Background(), Request{UserID: 7})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) == 0 {
		t.Error("fallback produced no items")
	}
	if resp.Trace.Path != PathFallback {
		t.Errorf("Path = %q, want fallback", resp.Trace.Path)
	}
	if engine.Stats().Fallbacks != 1 {
		t.Errorf("Fallbacks = %d, want 1", engine.Stats().Fallbacks)
	}
}

func TestEngine_Recommend_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source SnapshotSource
		want   []error
	}{
		{
			name:   "store failure is resource unavailable",
			source: failingSource(errors.New("bucket unreachable")),
			want:   []error{ErrResourceUnavailable},
		},
		{
			name:   "malformed record kept as is",
			source: failingSource(fmt.Errorf("parse articles_metadata.csv: %w", ErrMalformedRecord)),
			want:   []error{ErrMalformedRecord},
		},
		{
			name:   "deadline kept as is",
			source: failingSource(context.DeadlineExceeded),
			want:   []error{context.DeadlineExceeded},
		},
		{
			name: "model failure is resource unavailable",
			source: staticSource(func() *Snapshot {
				return fixtureSnapshot(&mockPredictor{err: errors.New("inference endpoint down")})
			}),
			want: []error{ErrResourceUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(DefaultConfig(), tt.source, zerolog.Nop())
			if err != nil {
				t.Fatalf("NewEngine() error = %v", err)
			}
			resp, err := engine.Recommend(context.Background(), Request{UserID: 7})
			if resp != nil {
				t.Errorf("Recommend() response = %+v, want nil", resp)
			}
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("Recommend() error = %v, want %v", err, want)
				}
			}
			if engine.Stats().Errors != 1 {
				t.Errorf("Errors = %d, want 1", engine.Stats().Errors)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "item strategy", modify: func(c *Config) { c.Strategy = StrategyItem }},
		{name: "unknown strategy", modify: func(c *Config) { c.Strategy = "random" }, wantErr: true},
		{name: "zero top_n", modify: func(c *Config) { c.TopN = 0 }, wantErr: true},
		{name: "zero slot_count", modify: func(c *Config) { c.SlotCount = 0 }, wantErr: true},
		{name: "zero max_categories", modify: func(c *Config) { c.MaxCategories = 0 }, wantErr: true},
		{name: "catalog scope", modify: func(c *Config) { c.CandidateScope = ScopeCatalog }},
		{name: "unknown scope", modify: func(c *Config) { c.CandidateScope = "global" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.SlotCount = 99
	if cfg.SlotCount == 99 {
		t.Error("Clone() shares state with the original")
	}
}
