// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import "context"

// ScoredCandidate is a category (or article) with its affinity score.
// Higher scores are preferred; the sign is unbounded.
type ScoredCandidate struct {
	// ID is the category ID, or the article ID for item-level ranking.
	ID int `json:"id"`

	// Score is the model estimate or, for fallback candidates, the click count.
	Score float64 `json:"score"`
}

// RankedCandidateList is the ordered candidate list of exactly one user.
// Scores are non-increasing. Lists returned by this package must not be modified.
type RankedCandidateList []ScoredCandidate

// IDs returns the candidate IDs in rank order.
func (l RankedCandidateList) IDs() []int {
	ids := make([]int, len(l))
	for i, c := range l {
		ids[i] = c.ID
	}
	return ids
}

// PredictionRow is one (user, candidate) pair submitted to a Predictor.
type PredictionRow struct {
	UserID int `json:"user_id"`
	ID     int `json:"id"`

	// Actual is the known rating for the pair, if any. It is passed through
	// unchanged and never used for ranking.
	Actual *float64 `json:"actual,omitempty"`
}

// PredictionDetails carries auxiliary information from the model.
type PredictionDetails struct {
	// WasImpossible is set when the model had no signal for the pair and
	// Estimate is only a baseline.
	WasImpossible bool   `json:"was_impossible"`
	Reason        string `json:"reason,omitempty"`
}

// Prediction is a model estimate for one (user, candidate) pair.
type Prediction struct {
	UserID   int               `json:"user_id"`
	ID       int               `json:"id"`
	Actual   *float64          `json:"actual,omitempty"`
	Estimate float64           `json:"estimate"`
	Details  PredictionDetails `json:"details"`
}

// Predictor produces estimates for a batch of rows.
// Implementations live in the inference package.
type Predictor interface {
	Predict(ctx context.Context, rows []PredictionRow) ([]Prediction, error)
}

// HistoryRecord states that a user has read an article.
type HistoryRecord struct {
	UserID int `json:"user_id"`
	ItemID int `json:"item_id"`
}

// CategoryCount is the number of clicks a user made in a category.
type CategoryCount struct {
	UserID     int     `json:"user_id"`
	CategoryID int     `json:"category_id"`
	Count      float64 `json:"count"`
}

// CatalogEntry maps an article to its single category.
type CatalogEntry struct {
	ItemID     int `json:"item_id"`
	CategoryID int `json:"category_id"`
}

// CategorySlotSequence is an ordered sequence of category IDs, one per output slot.
type CategorySlotSequence []int

// Result is a composed recommendation.
type Result struct {
	// Categories are the distinct slot categories that were consulted,
	// in first-consulted order.
	Categories []int `json:"categories"`

	// Items are the recommended article IDs in slot order.
	Items []int `json:"items"`
}

// Snapshot is the request-scoped input of a composition.
// A Snapshot is built once per request and never mutated afterwards.
type Snapshot struct {
	// Model scores (user, candidate) rows.
	Model Predictor

	// CategoryCounts is the per-user click count by category.
	CategoryCounts []CategoryCount

	// History lists the articles each user has already read.
	History []HistoryRecord

	// Catalog maps articles to categories.
	Catalog []CatalogEntry

	// Popularity is the interaction count per article. When nil it is
	// derived from History.
	Popularity map[int]int
}

// SnapshotSource loads a fresh Snapshot for a request.
type SnapshotSource interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// SnapshotSourceFunc adapts a function to SnapshotSource.
type SnapshotSourceFunc func(ctx context.Context) (*Snapshot, error)

// Load calls f(ctx).
func (f SnapshotSourceFunc) Load(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// Path identifies how candidates were obtained.
type Path string

const (
	// PathModel means the model produced the candidates.
	PathModel Path = "model"
	// PathFallback means the user's category history produced the candidates.
	PathFallback Path = "fallback"
	// PathEmpty means neither source had anything for the user.
	PathEmpty Path = "empty"
)

// Trace records how a composition was produced.
type Trace struct {
	Path            Path                 `json:"path"`
	Candidates      int                  `json:"candidates"`
	RelativeWeights []float64            `json:"relative_weights,omitempty"`
	Slots           CategorySlotSequence `json:"slots,omitempty"`
	SkippedSlots    int                  `json:"skipped_slots"`
}

// Request identifies the user to recommend for.
type Request struct {
	UserID    int
	RequestID string
}

// Response is the engine output with latency attribution.
// Timestamps are Unix epoch seconds.
type Response struct {
	UserID      int     `json:"user_id"`
	Categories  []int   `json:"categories"`
	Items       []int   `json:"items"`
	StartedAt   float64 `json:"t_start"`
	LoadedAt    float64 `json:"t_load"`
	PredictedAt float64 `json:"t_pred"`
	Strategy    string  `json:"strategy"`
	Trace       Trace   `json:"trace"`
}
