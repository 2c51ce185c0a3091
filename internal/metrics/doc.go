// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the API server at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests

Recommendations:
  - lectern_recommendations_total{strategy, path}
  - lectern_recommendation_duration_seconds{strategy, stage}
  - lectern_recommendation_errors_total{strategy, error_type}
  - lectern_recommendation_fallbacks_total{strategy}
  - lectern_recommendation_skipped_slots_total{strategy}
  - lectern_recommendation_items{strategy}

Resource stores:
  - lectern_resource_fetch_duration_seconds{backend, kind}
  - lectern_resource_fetch_errors_total{backend, kind, error_type}

Circuit breakers:
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

# Thread Safety

All recording helpers are safe for concurrent use.
*/
package metrics
