// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/lectern/internal/breaker"
	"github.com/tomtom215/lectern/internal/recommend"
)

// DefaultHTTPTimeout bounds one remote inference call.
const DefaultHTTPTimeout = 5 * time.Second

// maxErrorBody caps how much of an error response is copied into the error.
const maxErrorBody = 512

// HTTPProvider calls a remote inference service.
//
// Request:
//
//	POST <endpoint>
//	{"rows":[{"user_id":7,"id":3},...]}
//
// Response:
//
//	{"predictions":[{"user_id":7,"id":3,"estimate":4.1,"details":{"was_impossible":false}},...]}
//
// The response must hold exactly one prediction per row. Calls run through a
// circuit breaker; while it is open, Predict fails fast with
// recommend.ErrResourceUnavailable.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
	breaker  *breaker.Breaker[[]recommend.Prediction]
}

// HTTPOption customizes an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		p.client = c
	}
}

// WithBreakerSettings replaces the default circuit breaker profile.
func WithBreakerSettings(s breaker.Settings) HTTPOption {
	return func(p *HTTPProvider) {
		p.breaker = breaker.New[[]recommend.Prediction]("inference-http", s)
	}
}

// NewHTTPProvider creates a remote inference provider.
func NewHTTPProvider(endpoint string, timeout time.Duration, opts ...HTTPOption) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	p := &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.breaker == nil {
		p.breaker = breaker.New[[]recommend.Prediction]("inference-http", breaker.DefaultSettings())
	}
	return p
}

// Predict sends all rows in one batch.
func (p *HTTPProvider) Predict(ctx context.Context, rows []recommend.PredictionRow) ([]recommend.Prediction, error) {
	if len(rows) == 0 {
		return []recommend.Prediction{}, nil
	}

	preds, err := p.breaker.Execute(func() ([]recommend.Prediction, error) {
		return p.call(ctx, rows)
	})
	if err != nil {
		if breaker.IsRejected(err) {
			return nil, fmt.Errorf("%w: inference %s: %w", recommend.ErrResourceUnavailable, p.endpoint, err)
		}
		return nil, err
	}
	return preds, nil
}

func (p *HTTPProvider) call(ctx context.Context, rows []recommend.PredictionRow) ([]recommend.Prediction, error) {
	body, err := json.Marshal(struct {
		Rows []recommend.PredictionRow `json:"rows"`
	}{Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("inference error: status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var result struct {
		Predictions []recommend.Prediction `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode inference response: %w", recommend.ErrMalformedRecord, err)
	}
	if len(result.Predictions) != len(rows) {
		return nil, fmt.Errorf("%w: inference returned %d predictions for %d rows",
			recommend.ErrMalformedRecord, len(result.Predictions), len(rows))
	}

	// The remote side echoes identifiers; keep the requested ones.
	for i := range result.Predictions {
		result.Predictions[i].UserID = rows[i].UserID
		result.Predictions[i].ID = rows[i].ID
		result.Predictions[i].Actual = rows[i].Actual
	}
	return result.Predictions, nil
}
