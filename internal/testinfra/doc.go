// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

//go:build integration

/*
Package testinfra starts throwaway backend containers for integration tests
with testcontainers-go.

Every file is behind the integration build tag, and tests skip themselves
when Docker is not reachable:

	go test -tags integration ./internal/resource/...
*/
package testinfra
