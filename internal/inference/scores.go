// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package inference

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/tomtom215/lectern/internal/recommend"
)

// ScoreTable serves precomputed estimates exported by an offline job:
//
//	{"kind":"scores","default":0,"scores":{"7":{"3":4.2,"5":3.1}}}
//
// Pairs missing from the table get the default estimate; a user missing
// entirely is flagged WasImpossible.
type ScoreTable struct {
	fallback float64
	scores   map[int]map[int]float64
}

// DecodeScoreTable parses a score table blob.
func DecodeScoreTable(blob []byte) (*ScoreTable, error) {
	var raw struct {
		Default float64                       `json:"default"`
		Scores  map[string]map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: score table: %w", recommend.ErrMalformedRecord, err)
	}

	t := &ScoreTable{fallback: raw.Default, scores: make(map[int]map[int]float64, len(raw.Scores))}
	for userKey, row := range raw.Scores {
		userID, err := strconv.Atoi(userKey)
		if err != nil {
			return nil, fmt.Errorf("%w: score table: user id %q: %w", recommend.ErrMalformedRecord, userKey, err)
		}
		byID := make(map[int]float64, len(row))
		for idKey, score := range row {
			id, err := strconv.Atoi(idKey)
			if err != nil {
				return nil, fmt.Errorf("%w: score table: user %d: id %q: %w", recommend.ErrMalformedRecord, userID, idKey, err)
			}
			byID[id] = score
		}
		t.scores[userID] = byID
	}
	return t, nil
}

// Predict looks every row up in the table.
func (t *ScoreTable) Predict(ctx context.Context, rows []recommend.PredictionRow) ([]recommend.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]recommend.Prediction, len(rows))
	for i, row := range rows {
		p := recommend.Prediction{UserID: row.UserID, ID: row.ID, Actual: row.Actual, Estimate: t.fallback}
		if byID, ok := t.scores[row.UserID]; !ok {
			p.Details = recommend.PredictionDetails{WasImpossible: true, Reason: ReasonUserUnknown}
		} else if score, ok := byID[row.ID]; ok {
			p.Estimate = score
		}
		out[i] = p
	}
	return out, nil
}
