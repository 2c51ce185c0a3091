// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

// Package main is the entry point for the Lectern server.
//
// Lectern answers "which articles should this reader see next?" by combining
// a collaborative-filtering model over reader/category affinities with the
// reader's click history and the article catalog.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml and environment variables (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Resources: file, BadgerDB, Redis or DuckDB backends behind circuit breakers
//  4. Engine: snapshot loader and recommendation engine
//  5. HTTP Server: Chi router supervised by suture
//
// Every recommendation request loads a fresh snapshot of the model and the
// three tables. Nothing is cached between requests.
//
// # Example Usage
//
// File backend with the default resource names:
//
//	export RESOURCE_DIR=/data/resources
//	./lectern
//
// Tables in Redis, model from a remote inference service:
//
//	export RESOURCE_BACKEND=redis
//	export REDIS_ADDR=redis:6379
//	export RECO_MODEL_ENDPOINT=http://inference:9000/predict
//	./lectern
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for HTTP_SHUTDOWN_TIMEOUT before the resource backends
// are closed.
package main
