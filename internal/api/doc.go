// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package api provides the HTTP layer of Lectern.

Key Components:

  - Router: Chi route configuration and middleware stack
  - Handler: Recommendation and health handlers around a Recommender
  - ChiMiddleware: CORS (go-chi/cors) and rate limiting (go-chi/httprate)
  - Response formatting: go-json encoded envelopes with request metadata

Endpoints:

	GET  /get_reco?user_id=N               flat recommendation payload
	GET  /api/v1/recommendations?user_id=N same payload
	POST /api/v1/recommendations           body {"user_id": "N"}
	GET  /api/v1/health                    service summary
	GET  /api/v1/health/live               liveness probe
	GET  /api/v1/health/ready              readiness probe
	GET  /metrics                          Prometheus exposition

Recommendation Payload:

Successful recommendation calls return a flat object rather than the
envelope. Category and article lists are JSON arrays encoded as strings:

	{
	  "user_id": "7",
	  "reco_cats": "[3]",
	  "reco_arts": "[302,303]",
	  "t_start": 1760000000.12,
	  "t_load": 1760000000.31,
	  "t_pred": 1760000000.32
	}

A request without a user ID returns the same shape with empty lists and
zero timestamps. Every other outcome uses the envelope:

	{
	  "status": "error",
	  "data": null,
	  "metadata": {"timestamp": "...", "request_id": "..."},
	  "error": {"code": "VALIDATION_FAILED", "message": "..."}
	}

Error Mapping:

  - 400 VALIDATION_FAILED: user ID is not an integer
  - 400 INVALID_REQUEST_BODY: POST body is not JSON
  - 429 RATE_LIMITED: per-IP limit exceeded
  - 500 MALFORMED_RECORD: an input resource could not be parsed
  - 503 RESOURCE_UNAVAILABLE: an input resource could not be fetched
  - 504 TIMEOUT: the per-request deadline expired
*/
package api
