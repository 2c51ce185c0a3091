// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

// Package recommend composes a bounded, deduplicated article recommendation
// for a single user from model affinity predictions and interaction history.
//
// # Pipeline
//
// A composition runs in four stages:
//
//   - Rank: predictions are grouped per user and sorted by estimate (stable on ties)
//   - Fallback: when the model has nothing usable, the user's own category
//     click counts become the candidates
//   - Expand: the top candidates are turned into a fixed-length sequence of
//     category slots, repeated proportionally to their weights
//   - Resolve: each slot is filled with the most popular unread article of its
//     category, never repeating an article
//
// Rank, FallbackCandidates, Expand and Resolve are pure functions and can be
// used on their own. Engine ties them together behind a Strategy chosen by
// configuration and loads its inputs through an injected SnapshotSource.
//
// # Strategies
//
//   - category: category-level predictions, expanded into slots (default)
//   - item: item-level predictions ranked with read articles excluded
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, source, logger)
//	if err != nil {
//	    return err
//	}
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: 7})
//
// # Thread Safety
//
// Engine holds no per-request state and is safe for concurrent use. Every
// request works on its own Snapshot, which is never mutated.
package recommend
