// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package inference

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tomtom215/lectern/internal/recommend"
)

// Provider produces estimates for a batch of (user, candidate) rows.
// It has the same method set as recommend.Predictor.
type Provider interface {
	Predict(ctx context.Context, rows []recommend.PredictionRow) ([]recommend.Prediction, error)
}

// Model blob kinds understood by Decode.
const (
	KindSVD    = "svd"
	KindScores = "scores"
)

// ReasonUserUnknown is the WasImpossible reason for users absent from training.
const ReasonUserUnknown = "user is unknown"

// Decode builds a Provider from a serialized model blob, dispatching on its
// "kind" field.
func Decode(blob []byte) (Provider, error) {
	var header struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(blob, &header); err != nil {
		return nil, fmt.Errorf("%w: model blob: %w", recommend.ErrMalformedRecord, err)
	}

	switch header.Kind {
	case KindSVD, "":
		return DecodeSVD(blob)
	case KindScores:
		return DecodeScoreTable(blob)
	default:
		return nil, fmt.Errorf("%w: model blob: unsupported kind %q", recommend.ErrMalformedRecord, header.Kind)
	}
}
