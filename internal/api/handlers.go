// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/lectern/internal/recommend"
)

// DefaultRequestTimeout bounds one recommendation call when Options leaves
// it unset.
const DefaultRequestTimeout = 10 * time.Second

// Recommender is the engine surface the handlers need.
// *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Strategy() string
	Config() *recommend.Config
	Stats() recommend.Stats
}

// ServiceInfo is static deployment information reported by the readiness probe.
type ServiceInfo struct {
	Version      string `json:"version"`
	Environment  string `json:"environment,omitempty"`
	Backend      string `json:"backend"`
	ModelBackend string `json:"model_backend,omitempty"`
	ModelSource  string `json:"model_source"`
}

// Options configures a Handler.
type Options struct {
	RequestTimeout time.Duration
	Info           ServiceInfo

	// ReadyCheck, when set, gates the readiness probe. It must not load a
	// snapshot.
	ReadyCheck func(ctx context.Context) error
}

// Handler serves the recommendation and health endpoints.
type Handler struct {
	engine         Recommender
	requestTimeout time.Duration
	info           ServiceInfo
	readyCheck     func(ctx context.Context) error
	startTime      time.Time
}

// NewHandler creates a handler around engine.
func NewHandler(engine Recommender, opts Options) (*Handler, error) {
	if engine == nil {
		return nil, errors.New("recommendation engine is required")
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Handler{
		engine:         engine,
		requestTimeout: timeout,
		info:           opts.Info,
		readyCheck:     opts.ReadyCheck,
		startTime:      time.Now(),
	}, nil
}
