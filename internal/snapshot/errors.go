// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package snapshot

import (
	"fmt"

	"github.com/tomtom215/lectern/internal/recommend"
)

// RecordError locates an unparsable cell or a missing column in a table.
// It matches recommend.ErrMalformedRecord with errors.Is.
type RecordError struct {
	Resource string
	// Row is the 1-based line number in the file; 1 is the header.
	Row    int
	Column string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Row <= 1 {
		return fmt.Sprintf("%s: header: column %s: %v", e.Resource, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: row %d: column %s: %v", e.Resource, e.Row, e.Column, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{recommend.ErrMalformedRecord, e.Err}
}
