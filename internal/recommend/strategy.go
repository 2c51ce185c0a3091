// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// Strategy composes a Result for one user from a Snapshot.
type Strategy interface {
	// Name returns the configuration name of the strategy.
	Name() string

	// Compose builds the recommendation for userID. Errors are returned only
	// for model failures; scarcity degrades the result instead.
	Compose(ctx context.Context, userID int, snap *Snapshot) (*Result, Trace, error)
}

// NewStrategy returns the strategy selected by cfg.Strategy.
func NewStrategy(cfg *Config) (Strategy, error) {
	switch cfg.Strategy {
	case StrategyCategory:
		return &CategoryStrategy{config: cfg}, nil
	case StrategyItem:
		return &ItemStrategy{config: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
}

// CategoryStrategy predicts category affinities, expands the best categories
// into slots and fills each slot with a popular unread article.
type CategoryStrategy struct {
	config *Config
}

// Name implements Strategy.
func (s *CategoryStrategy) Name() string {
	return StrategyCategory
}

// Compose implements Strategy.
func (s *CategoryStrategy) Compose(ctx context.Context, userID int, snap *Snapshot) (*Result, Trace, error) {
	rows := categoryRows(userID, snap, s.config.CandidateScope)

	var ranked RankedCandidateList
	if snap.Model != nil && len(rows) > 0 {
		predictions, err := snap.Model.Predict(ctx, rows)
		if err != nil {
			return nil, Trace{}, fmt.Errorf("predict categories: %w", err)
		}
		ranked = Rank(predictions, s.config.TopN, rankOptionsFor(s.config)...)[userID]
	}

	result, trace := composeSlots(userID, ranked, snap, s.config)
	return result, trace, nil
}

// ItemStrategy predicts article affinities directly and keeps the best
// unread articles. Users without model signal go through the category
// fallback.
type ItemStrategy struct {
	config *Config
}

// Name implements Strategy.
func (s *ItemStrategy) Name() string {
	return StrategyItem
}

// Compose implements Strategy.
func (s *ItemStrategy) Compose(ctx context.Context, userID int, snap *Snapshot) (*Result, Trace, error) {
	rows := itemRows(userID, snap.Catalog)

	var ranked RankedCandidateList
	if snap.Model != nil && len(rows) > 0 {
		predictions, err := snap.Model.Predict(ctx, rows)
		if err != nil {
			return nil, Trace{}, fmt.Errorf("predict items: %w", err)
		}
		read := map[int]map[int]struct{}{userID: ReadSet(snap.History, userID)}
		opts := append(rankOptionsFor(s.config), WithExclusions(read))
		ranked = Rank(predictions, s.config.SlotCount, opts...)[userID]
	}

	if len(ranked) == 0 {
		result, trace := composeSlots(userID, nil, snap, s.config)
		return result, trace, nil
	}

	categoryOf := make(map[int]int, len(snap.Catalog))
	for _, e := range snap.Catalog {
		if _, ok := categoryOf[e.ItemID]; !ok {
			categoryOf[e.ItemID] = e.CategoryID
		}
	}

	result := &Result{Categories: []int{}, Items: ranked.IDs()}
	seen := make(map[int]struct{})
	for _, item := range result.Items {
		c, ok := categoryOf[item]
		if !ok {
			continue
		}
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			result.Categories = append(result.Categories, c)
		}
	}
	return result, Trace{Path: PathModel, Candidates: len(ranked)}, nil
}

// composeSlots runs fallback, expansion and resolution for ranked candidates.
func composeSlots(userID int, ranked RankedCandidateList, snap *Snapshot, cfg *Config) (*Result, Trace) {
	trace := Trace{Path: PathModel}
	if len(ranked) == 0 {
		ranked = FallbackCandidates(userID, snap.CategoryCounts)
		trace.Path = PathFallback
	}
	if len(ranked) == 0 {
		trace.Path = PathEmpty
		return &Result{Categories: []int{}, Items: []int{}}, trace
	}

	trace.Candidates = len(ranked)
	trace.RelativeWeights = RelativeWeightsN(ranked, cfg.MaxCategories)
	trace.Slots = ExpandN(ranked, cfg.SlotCount, cfg.MaxCategories)

	popularity := snap.Popularity
	if popularity == nil {
		popularity = PopularityFromHistory(snap.History)
	}
	result, skipped := resolve(trace.Slots, ReadSet(snap.History, userID), snap.Catalog, popularity)
	trace.SkippedSlots = skipped
	return &result, trace
}

// rankOptionsFor returns the rank options implied by cfg.
func rankOptionsFor(cfg *Config) []RankOption {
	if cfg.SkipImpossible {
		return []RankOption{SkipImpossible()}
	}
	return nil
}

// categoryRows builds the category prediction rows for userID.
func categoryRows(userID int, snap *Snapshot, scope string) []PredictionRow {
	seen := make(map[int]struct{})
	var rows []PredictionRow

	if scope == ScopeCatalog {
		for _, e := range snap.Catalog {
			if _, ok := seen[e.CategoryID]; ok {
				continue
			}
			seen[e.CategoryID] = struct{}{}
			rows = append(rows, PredictionRow{UserID: userID, ID: e.CategoryID})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		return rows
	}

	for _, c := range snap.CategoryCounts {
		if c.UserID != userID {
			continue
		}
		if _, ok := seen[c.CategoryID]; ok {
			continue
		}
		seen[c.CategoryID] = struct{}{}
		count := c.Count
		rows = append(rows, PredictionRow{UserID: userID, ID: c.CategoryID, Actual: &count})
	}
	return rows
}

// itemRows builds one prediction row per distinct catalog article.
func itemRows(userID int, catalog []CatalogEntry) []PredictionRow {
	seen := make(map[int]struct{}, len(catalog))
	rows := make([]PredictionRow, 0, len(catalog))
	for _, e := range catalog {
		if _, ok := seen[e.ItemID]; ok {
			continue
		}
		seen[e.ItemID] = struct{}{}
		rows = append(rows, PredictionRow{UserID: userID, ID: e.ItemID})
	}
	return rows
}
