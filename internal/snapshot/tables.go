// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package snapshot

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/lectern/internal/recommend"
	"github.com/tomtom215/lectern/internal/resource"
)

// Column names of the input tables.
const (
	ColUserID     = "user_id"
	ColCategoryID = "category_id"
	ColClicks     = "nb_clicks"
	ColArticleID  = "article_id"
)

var (
	errMissingColumn = errors.New("missing column")
	errNotInteger    = errors.New("not an integer")
)

// columns resolves the positions of the required columns.
func columns(name string, t *resource.Table, required ...string) ([]int, error) {
	idx := make([]int, len(required))
	for i, col := range required {
		idx[i] = t.Index(col)
		if idx[i] < 0 {
			return nil, &RecordError{Resource: name, Row: 1, Column: col, Err: errMissingColumn}
		}
	}
	return idx, nil
}

// parseID accepts integers, and floats with an integral value ("3.0").
func parseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("%q: %w", s, errNotInteger)
	}
	return int(f), nil
}

func cellInt(name string, line int, col string, raw string) (int, error) {
	v, err := parseID(raw)
	if err != nil {
		return 0, &RecordError{Resource: name, Row: line, Column: col, Err: err}
	}
	return v, nil
}

// parseClicks reads a click count: finite and not negative. Fractional
// counts are kept.
func parseClicks(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("click count %q is not finite", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("click count %q is negative", raw)
	}
	return v, nil
}

// parseCategoryCounts reads cat_rating_by_user: user_id, category_id, nb_clicks.
func parseCategoryCounts(name string, t *resource.Table) ([]recommend.CategoryCount, error) {
	idx, err := columns(name, t, ColUserID, ColCategoryID, ColClicks)
	if err != nil {
		return nil, err
	}

	out := make([]recommend.CategoryCount, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		userID, err := cellInt(name, line, ColUserID, row[idx[0]])
		if err != nil {
			return nil, err
		}
		catID, err := cellInt(name, line, ColCategoryID, row[idx[1]])
		if err != nil {
			return nil, err
		}
		clicks, err := parseClicks(row[idx[2]])
		if err != nil {
			return nil, &RecordError{Resource: name, Row: line, Column: ColClicks, Err: err}
		}
		out = append(out, recommend.CategoryCount{UserID: userID, CategoryID: catID, Count: clicks})
	}
	return out, nil
}

// parseHistory reads articles_by_user: user_id, article_id.
func parseHistory(name string, t *resource.Table) ([]recommend.HistoryRecord, error) {
	idx, err := columns(name, t, ColUserID, ColArticleID)
	if err != nil {
		return nil, err
	}

	out := make([]recommend.HistoryRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		userID, err := cellInt(name, line, ColUserID, row[idx[0]])
		if err != nil {
			return nil, err
		}
		itemID, err := cellInt(name, line, ColArticleID, row[idx[1]])
		if err != nil {
			return nil, err
		}
		out = append(out, recommend.HistoryRecord{UserID: userID, ItemID: itemID})
	}
	return out, nil
}

// parseCatalog reads articles_metadata: article_id, category_id, plus any
// metadata columns. Rows rejected by rule are dropped.
func parseCatalog(name string, t *resource.Table, rule *CatalogRule) ([]recommend.CatalogEntry, error) {
	idx, err := columns(name, t, ColArticleID, ColCategoryID)
	if err != nil {
		return nil, err
	}

	out := make([]recommend.CatalogEntry, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		itemID, err := cellInt(name, line, ColArticleID, row[idx[0]])
		if err != nil {
			return nil, err
		}
		catID, err := cellInt(name, line, ColCategoryID, row[idx[1]])
		if err != nil {
			return nil, err
		}

		if rule != nil {
			keep, err := rule.Match(articleFields(t.Columns, row))
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: catalog rule: %w", name, line, err)
			}
			if !keep {
				continue
			}
		}
		out = append(out, recommend.CatalogEntry{ItemID: itemID, CategoryID: catID})
	}
	return out, nil
}

// articleFields exposes a metadata row to the catalog rule. Cells that parse
// as integers become int64, other numeric cells float64, the rest strings.
func articleFields(cols []string, row []string) map[string]any {
	fields := make(map[string]any, len(cols))
	for i, col := range cols {
		if col == "" {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			fields[col] = n
		} else if f, err := strconv.ParseFloat(cell, 64); err == nil {
			fields[col] = f
		} else {
			fields[col] = cell
		}
	}
	return fields
}
