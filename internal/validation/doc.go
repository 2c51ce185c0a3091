// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is built once and shared (it caches struct
metadata and is safe for concurrent use). Field errors are reported under
the field's JSON name and converted to the API error envelope with
ToAPIError, always with code VALIDATION_FAILED.

# Custom Tags

  - userid: the string holds a base-10 integer (see ParseUserID)

# Usage

	type recommendationRequest struct {
	    UserID string `json:"user_id" validate:"required,userid"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	    return
	}
*/
package validation
