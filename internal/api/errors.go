// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/lectern/internal/recommend"
	"github.com/tomtom215/lectern/internal/validation"
)

// API error codes
const (
	CodeValidationFailed    = validation.CodeValidationFailed
	CodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	CodeResourceUnavailable = "RESOURCE_UNAVAILABLE"
	CodeMalformedRecord     = "MALFORMED_RECORD"
	CodeTimeout             = "TIMEOUT"
	CodeRequestCanceled     = "REQUEST_CANCELED"
	CodeRecommendationError = "RECOMMENDATION_ERROR"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeNotFound            = "NOT_FOUND"
	CodeNotReady            = "NOT_READY"
	CodeRateLimited         = "RATE_LIMITED"
)

// errorStatus maps an engine error to its HTTP status, error code and
// client-facing message. Deadlines are checked first because a timed-out
// fetch also matches ErrResourceUnavailable.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout, "Recommendation timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, CodeRequestCanceled, "Request canceled"
	case errors.Is(err, recommend.ErrMalformedRecord):
		return http.StatusInternalServerError, CodeMalformedRecord, "A recommendation input is malformed"
	case errors.Is(err, recommend.ErrResourceUnavailable):
		return http.StatusServiceUnavailable, CodeResourceUnavailable, "A recommendation input is unavailable"
	default:
		return http.StatusInternalServerError, CodeRecommendationError, "Failed to generate recommendations"
	}
}
