// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package snapshot assembles a recommend.Snapshot from the four stored inputs:

  - the serialized model (svd.json by default)
  - per-user category click counts (cat_rating_by_user.csv)
  - reading history (articles_by_user.csv)
  - the article catalog (articles_metadata.csv)

A Loader fetches all inputs concurrently through a resource.Store on every
Load call and derives article popularity from the history. Columns are
located by header name, so extra columns and any column order are accepted.

Errors:

  - a missing or unreachable input matches recommend.ErrResourceUnavailable
  - an unparsable blob or cell matches recommend.ErrMalformedRecord; table
    cells are reported as *RecordError with the file line and column

An optional CEL expression (see CompileCatalogRule) restricts the catalog:

	loader, err := snapshot.NewLoader(store, snapshot.Options{
		CatalogRule: "article.words_count >= 100",
	})
*/
package snapshot
