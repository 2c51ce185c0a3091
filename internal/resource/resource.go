// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tomtom215/lectern/internal/metrics"
	"github.com/tomtom215/lectern/internal/recommend"
)

// Kind tells a store how to interpret a named resource.
type Kind string

const (
	// KindModel is an opaque serialized model blob.
	KindModel Kind = "model"
	// KindTable is a tabular file with a header row.
	KindTable Kind = "table"
)

var (
	// ErrNotFound is returned when a store has no resource with the given name.
	ErrNotFound = errors.New("resource not found")

	// ErrUnsupportedKind is returned by stores that cannot hold a kind.
	ErrUnsupportedKind = errors.New("unsupported resource kind")

	// ErrUnavailable is returned by Stores.Ping when a backend is unreachable.
	ErrUnavailable = errors.New("resource backend unavailable")
)

// Resource is a fetched model blob or table.
type Resource struct {
	Name  string
	Kind  Kind
	Blob  []byte
	Table *Table
}

// Table is a parsed tabular resource. All cells are raw strings; typing is
// the caller's concern.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Store fetches named resources.
type Store interface {
	Fetch(ctx context.Context, name string, kind Kind) (*Resource, error)
}

// Writer stores raw resource bytes. Table bytes are CSV with a header row.
type Writer interface {
	Put(ctx context.Context, name string, kind Kind, data []byte) error
}

// key is the storage key used by the key-value backends.
func key(kind Kind, name string) string {
	return string(kind) + ":" + name
}

// decode turns raw stored bytes into a Resource.
func decode(name string, kind Kind, data []byte) (*Resource, error) {
	switch kind {
	case KindModel:
		return &Resource{Name: name, Kind: kind, Blob: data}, nil
	case KindTable:
		table, err := ParseCSV(name, data)
		if err != nil {
			return nil, err
		}
		return &Resource{Name: name, Kind: kind, Table: table}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

// ParseCSV parses CSV bytes whose first record is the header. Header names
// are trimmed and a UTF-8 byte order mark is dropped.
func ParseCSV(name string, data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: empty table", recommend.ErrMalformedRecord, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: header: %w", recommend.ErrMalformedRecord, name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", recommend.ErrMalformedRecord, name, err)
	}
	return &Table{Columns: header, Rows: rows}, nil
}

// observe records fetch latency for a backend.
func observe(backend string, kind Kind, start time.Time, err error) {
	metrics.RecordResourceFetch(backend, string(kind), time.Since(start), err)
}
