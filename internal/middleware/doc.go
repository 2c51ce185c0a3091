// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: X-Request-ID propagation and correlation IDs for logging.Ctx
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern

All middleware have the standard func(http.Handler) http.Handler shape and
are mounted with chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
