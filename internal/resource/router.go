// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"fmt"
)

// Router sends model fetches and table fetches to different stores, e.g.
// model blobs from Badger and tables from DuckDB.
type Router struct {
	Models Store
	Tables Store
}

// Fetch dispatches on kind.
func (r *Router) Fetch(ctx context.Context, name string, kind Kind) (*Resource, error) {
	switch kind {
	case KindModel:
		return r.Models.Fetch(ctx, name, kind)
	case KindTable:
		return r.Tables.Fetch(ctx, name, kind)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}
