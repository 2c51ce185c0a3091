// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/lectern/internal/recommend"
)

func setupDuckDB(t *testing.T, csvDir string) *DuckDBStore {
	t.Helper()
	db, err := OpenDuckDB("")
	if err != nil {
		t.Fatalf("OpenDuckDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewDuckDBStore(db, csvDir)
}

func TestDuckDBStore_CSVDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cat_rating_by_user.csv"), []byte(catRatingCSV), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	store := setupDuckDB(t, dir)

	res, err := store.Fetch(context.Background(), "cat_rating_by_user.csv", KindTable)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	wantCols := []string{"user_id", "category_id", "nb_clicks"}
	if !reflect.DeepEqual(res.Table.Columns, wantCols) {
		t.Errorf("Columns = %q, want %q", res.Table.Columns, wantCols)
	}
	wantRows := [][]string{{"7", "3", "12"}, {"7", "5", "4"}, {"8", "3", "1"}}
	if !reflect.DeepEqual(res.Table.Rows, wantRows) {
		t.Errorf("Rows = %q, want %q", res.Table.Rows, wantRows)
	}
}

func TestDuckDBStore_DatabaseTable(t *testing.T) {
	store := setupDuckDB(t, "")
	ctx := context.Background()

	for _, stmt := range []string{
		"CREATE TABLE articles_by_user (user_id INTEGER, article_id INTEGER)",
		"INSERT INTO articles_by_user VALUES (7, 301), (7, 501), (8, NULL)",
	} {
		if _, err := store.db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}

	res, err := store.Fetch(ctx, "articles_by_user.csv", KindTable)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(res.Table.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(res.Table.Rows))
	}
	if res.Table.Rows[0][0] != "7" || res.Table.Rows[0][1] != "301" {
		t.Errorf("first row = %q, want [7 301]", res.Table.Rows[0])
	}
	if res.Table.Rows[2][1] != "" {
		t.Errorf("NULL cell = %q, want empty", res.Table.Rows[2][1])
	}
}

func TestDuckDBStore_Errors(t *testing.T) {
	store := setupDuckDB(t, t.TempDir())
	ctx := context.Background()

	if _, err := store.Fetch(ctx, "svd.json", KindModel); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("Fetch(model) error = %v, want ErrUnsupportedKind", err)
	}
	if _, err := store.Fetch(ctx, "missing.csv", KindTable); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch(missing) error = %v, want ErrNotFound", err)
	}
}

func TestQuoting(t *testing.T) {
	if got := quoteLiteral("/tmp/o'brien.csv"); got != "'/tmp/o''brien.csv'" {
		t.Errorf("quoteLiteral() = %s", got)
	}
	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("quoteIdent() = %s", got)
	}
}

func TestDuckDBStore_MalformedCSV(t *testing.T) {
	dir := t.TempDir()
	// Invalid UTF-8 in a varchar cell fails the read.
	if err := os.WriteFile(filepath.Join(dir, "articles_by_user.csv"), []byte("user_id,article_id\n7,\xff\xfe301\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	store := setupDuckDB(t, dir)

	_, err := store.Fetch(context.Background(), "articles_by_user.csv", KindTable)
	if !errors.Is(err, recommend.ErrMalformedRecord) {
		t.Errorf("Fetch() error = %v, want ErrMalformedRecord", err)
	}
}

func TestMalformed(t *testing.T) {
	parseErr := errors.New("could not convert")

	err := malformed(context.Background(), "articles_metadata.csv", parseErr)
	if !errors.Is(err, recommend.ErrMalformedRecord) || !errors.Is(err, parseErr) {
		t.Errorf("malformed() = %v, want ErrMalformedRecord wrapping the cause", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = malformed(ctx, "articles_metadata.csv", parseErr)
	if errors.Is(err, recommend.ErrMalformedRecord) || !errors.Is(err, context.Canceled) {
		t.Errorf("malformed(canceled) = %v, want context.Canceled only", err)
	}
}
