// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver

	"github.com/tomtom215/lectern/internal/recommend"
)

// DuckDBStore serves tables through DuckDB. A table named "x.csv" is read
// with read_csv_auto from the CSV directory when the file exists there;
// otherwise it is read from table "x" of the database. Model blobs are not
// supported.
type DuckDBStore struct {
	db     *sql.DB
	csvDir string
}

// OpenDuckDB opens a DuckDB database file, or an in-memory database for an
// empty path.
func OpenDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return db, nil
}

// NewDuckDBStore creates a store over db. csvDir may be empty. The caller
// owns db.
func NewDuckDBStore(db *sql.DB, csvDir string) *DuckDBStore {
	return &DuckDBStore{db: db, csvDir: csvDir}
}

// Fetch reads a table.
func (s *DuckDBStore) Fetch(ctx context.Context, name string, kind Kind) (res *Resource, err error) {
	defer func(start time.Time) { observe("duckdb", kind, start, err) }(time.Now())

	if kind != KindTable {
		return nil, fmt.Errorf("%w: duckdb store cannot serve %s %q", ErrUnsupportedKind, kind, name)
	}

	query, fromCSV, err := s.query(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if fromCSV {
			return nil, malformed(ctx, name, err)
		}
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	table, err := scanTable(rows)
	if err != nil {
		return nil, malformed(ctx, name, err)
	}
	return &Resource{Name: name, Kind: kind, Table: table}, nil
}

// malformed classifies a read or scan failure as a malformed record unless
// the request context ended first.
func malformed(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("read %s: %w", name, ctxErr)
	}
	return fmt.Errorf("%w: %s: %w", recommend.ErrMalformedRecord, name, err)
}

// query picks the CSV file or the database table backing name and reports
// whether it reads a CSV file.
func (s *DuckDBStore) query(ctx context.Context, name string) (string, bool, error) {
	if s.csvDir != "" && name == filepath.Base(name) {
		path := filepath.Join(s.csvDir, name)
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)", quoteLiteral(path)), true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("stat %s: %w", name, err)
		}
	}

	table := strings.TrimSuffix(name, filepath.Ext(name))
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?",
		table,
	).Scan(&count)
	if err != nil {
		return "", false, fmt.Errorf("check table %s: %w", table, err)
	}
	if count == 0 {
		return "", false, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return "SELECT * FROM " + quoteIdent(table), false, nil
}

// scanTable renders every cell as a string, NULL as "".
func scanTable(rows *sql.Rows) (*Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make([]string, len(cols))
		for i, v := range values {
			switch x := v.(type) {
			case nil:
				record[i] = ""
			case []byte:
				record[i] = string(x)
			case string:
				record[i] = x
			default:
				record[i] = fmt.Sprint(x)
			}
		}
		table.Rows = append(table.Rows, record)
	}
	return table, rows.Err()
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
