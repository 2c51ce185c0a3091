// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import "errors"

// Sentinel errors returned by the engine. Callers match them with errors.Is.
var (
	// ErrMissingInput marks a request without a user ID. The HTTP layer
	// answers it with the empty payload instead of an error.
	ErrMissingInput = errors.New("missing user id")

	// ErrResourceUnavailable wraps failures to fetch the model or an input table.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrMalformedRecord wraps unparsable rows in an input table or model blob.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownStrategy is returned for a strategy name with no implementation.
	ErrUnknownStrategy = errors.New("unknown strategy")
)
