// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package inference provides the model backends that score (user, category)
and (user, article) pairs for the recommendation engine.

Three providers are available:

  - SVD: a factorisation model decoded from a JSON model blob
  - ScoreTable: precomputed estimates exported by an offline job
  - HTTPProvider: a remote inference service behind a circuit breaker

Decode inspects the "kind" field of a model blob and returns the matching
local provider. Every provider satisfies recommend.Predictor, so the engine
never depends on this package directly.
*/
package inference
