// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation composition by strategy and path
// - Resource store fetches
// - Circuit breakers around stores and remote inference

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lectern_recommendations_total",
			Help: "Total number of composed recommendations by strategy and candidate path",
		},
		[]string{"strategy", "path"}, // path: "model", "fallback", "empty"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lectern_recommendation_duration_seconds",
			Help:    "Recommendation stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy", "stage"}, // stage: "load", "compose"
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lectern_recommendation_errors_total",
			Help: "Total number of failed recommendation requests",
		},
		[]string{"strategy", "error_type"},
	)

	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lectern_recommendation_fallbacks_total",
			Help: "Requests answered from the user's own category history",
		},
		[]string{"strategy"},
	)

	RecommendationSkippedSlots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lectern_recommendation_skipped_slots_total",
			Help: "Category slots left unfilled because the category ran out of items",
		},
		[]string{"strategy"},
	)

	RecommendationItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lectern_recommendation_items",
			Help:    "Number of items returned per recommendation",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10, 20},
		},
		[]string{"strategy"},
	)

	// Resource Store Metrics
	ResourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lectern_resource_fetch_duration_seconds",
			Help:    "Duration of resource store fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "kind"},
	)

	ResourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lectern_resource_fetch_errors_total",
			Help: "Total number of failed resource fetches",
		},
		[]string{"backend", "kind", "error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records a successfully composed recommendation.
func RecordRecommendation(strategy, path string, load, compose time.Duration, items, skipped int) {
	RecommendationsTotal.WithLabelValues(strategy, path).Inc()
	RecommendationDuration.WithLabelValues(strategy, "load").Observe(load.Seconds())
	RecommendationDuration.WithLabelValues(strategy, "compose").Observe(compose.Seconds())
	RecommendationItems.WithLabelValues(strategy).Observe(float64(items))
	if path == "fallback" {
		RecommendationFallbacks.WithLabelValues(strategy).Inc()
	}
	if skipped > 0 {
		RecommendationSkippedSlots.WithLabelValues(strategy).Add(float64(skipped))
	}
}

// RecordRecommendationError records a failed recommendation request.
func RecordRecommendationError(strategy, errorType string) {
	RecommendationErrors.WithLabelValues(strategy, errorType).Inc()
}

// RecordResourceFetch records a resource store fetch metric
func RecordResourceFetch(backend, kind string, duration time.Duration, err error) {
	ResourceFetchDuration.WithLabelValues(backend, kind).Observe(duration.Seconds())
	if err != nil {
		ResourceFetchErrors.WithLabelValues(backend, kind, errorType(err)).Inc()
	}
}

// errorType keeps label cardinality bounded.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}
