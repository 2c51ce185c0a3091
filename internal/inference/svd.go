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

// svdBlob is the serialized form of a trained factorisation model.
type svdBlob struct {
	Kind        string                `json:"kind"`
	Version     int                   `json:"version"`
	GlobalMean  float64               `json:"global_mean"`
	RatingScale []float64             `json:"rating_scale"`
	Biased      *bool                 `json:"biased"`
	Users       map[string]factorBlob `json:"users"`
	Items       map[string]factorBlob `json:"items"`
}

type factorBlob struct {
	Bias    float64   `json:"bias"`
	Factors []float64 `json:"factors"`
}

// SVD is a matrix factorisation model:
//
//	est = mu + b_u + b_i + q_i . p_u
//
// clipped to the rating scale. When the model is unbiased the bias terms are
// omitted. SVD is immutable after decoding and safe for concurrent use.
type SVD struct {
	globalMean float64
	low, high  float64
	biased     bool
	factors    int
	users      map[int]factorBlob
	items      map[int]factorBlob
}

// DecodeSVD parses an SVD model blob.
func DecodeSVD(blob []byte) (*SVD, error) {
	var raw svdBlob
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: svd model: %w", recommend.ErrMalformedRecord, err)
	}

	m := &SVD{
		globalMean: raw.GlobalMean,
		biased:     raw.Biased == nil || *raw.Biased,
		factors:    -1,
	}

	switch len(raw.RatingScale) {
	case 0:
		m.low, m.high = 1, 5
	case 2:
		m.low, m.high = raw.RatingScale[0], raw.RatingScale[1]
		if m.low > m.high {
			return nil, fmt.Errorf("%w: svd model: rating scale [%g, %g] is inverted", recommend.ErrMalformedRecord, m.low, m.high)
		}
	default:
		return nil, fmt.Errorf("%w: svd model: rating scale needs 2 bounds, got %d", recommend.ErrMalformedRecord, len(raw.RatingScale))
	}

	var err error
	if m.users, err = m.indexFactors("user", raw.Users); err != nil {
		return nil, err
	}
	if m.items, err = m.indexFactors("item", raw.Items); err != nil {
		return nil, err
	}
	return m, nil
}

// indexFactors converts string keys to IDs and checks that every factor
// vector has the same length.
func (m *SVD) indexFactors(what string, in map[string]factorBlob) (map[int]factorBlob, error) {
	out := make(map[int]factorBlob, len(in))
	for key, f := range in {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: svd model: %s id %q: %w", recommend.ErrMalformedRecord, what, key, err)
		}
		if m.factors < 0 {
			m.factors = len(f.Factors)
		} else if len(f.Factors) != m.factors {
			return nil, fmt.Errorf("%w: svd model: %s %d has %d factors, want %d",
				recommend.ErrMalformedRecord, what, id, len(f.Factors), m.factors)
		}
		out[id] = f
	}
	return out, nil
}

// Predict estimates every row. Rows for users the model never saw are
// flagged WasImpossible and carry the baseline estimate.
func (m *SVD) Predict(ctx context.Context, rows []recommend.PredictionRow) ([]recommend.Prediction, error) {
	out := make([]recommend.Prediction, len(rows))
	for i, row := range rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		est, details := m.estimate(row.UserID, row.ID)
		out[i] = recommend.Prediction{
			UserID:   row.UserID,
			ID:       row.ID,
			Actual:   row.Actual,
			Estimate: est,
			Details:  details,
		}
	}
	return out, nil
}

func (m *SVD) estimate(userID, itemID int) (float64, recommend.PredictionDetails) {
	user, knownUser := m.users[userID]
	item, knownItem := m.items[itemID]

	var est float64
	if m.biased {
		est = m.globalMean
		if knownUser {
			est += user.Bias
		}
		if knownItem {
			est += item.Bias
		}
	}
	if knownUser && knownItem {
		for k := range user.Factors {
			est += user.Factors[k] * item.Factors[k]
		}
	}
	if !m.biased && !(knownUser && knownItem) {
		est = m.globalMean
	}

	var details recommend.PredictionDetails
	if !knownUser {
		details = recommend.PredictionDetails{WasImpossible: true, Reason: ReasonUserUnknown}
	}
	return m.clip(est), details
}

func (m *SVD) clip(est float64) float64 {
	if est < m.low {
		return m.low
	}
	if est > m.high {
		return m.high
	}
	return est
}

// Factors returns the latent dimension, or 0 for an empty model.
func (m *SVD) Factors() int {
	if m.factors < 0 {
		return 0
	}
	return m.factors
}
