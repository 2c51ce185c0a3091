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
	"testing"
	"time"

	"github.com/tomtom215/lectern/internal/breaker"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "articles_by_user.csv"), []byte("user_id,article_id\n7,301\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	settings := breaker.DefaultSettings()

	tests := []struct {
		name       string
		opts       Options
		wantWriter bool
		wantRouter bool
		wantErr    bool
	}{
		{name: "file", opts: Options{Backend: BackendFile, Dir: dir}, wantWriter: true},
		{name: "badger in memory", opts: Options{Backend: BackendBadger}, wantWriter: true},
		{name: "file tables with badger models", opts: Options{Backend: BackendFile, ModelBackend: BackendBadger, Dir: dir}, wantWriter: true, wantRouter: true},
		{name: "duckdb is read only", opts: Options{Backend: BackendDuckDB, Dir: dir}},
		{name: "with breaker", opts: Options{Backend: BackendFile, Dir: dir, Breaker: &settings}, wantWriter: true},
		{name: "file without dir", opts: Options{Backend: BackendFile}, wantErr: true},
		{name: "unknown backend", opts: Options{Backend: "s3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores, err := Open(context.Background(), tt.opts)
			if tt.wantErr {
				if err == nil {
					stores.Close()
					t.Fatal("Open() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer stores.Close()

			if (stores.Writer != nil) != tt.wantWriter {
				t.Errorf("Writer = %v, want present=%v", stores.Writer, tt.wantWriter)
			}
			if _, ok := stores.Store.(*Router); ok != tt.wantRouter {
				t.Errorf("Store type = %T, want router=%v", stores.Store, tt.wantRouter)
			}

			if tt.opts.Backend == BackendFile || tt.opts.Backend == BackendDuckDB {
				res, err := stores.Store.Fetch(context.Background(), "articles_by_user.csv", KindTable)
				if err != nil {
					t.Fatalf("Fetch() error = %v", err)
				}
				if len(res.Table.Rows) != 1 {
					t.Errorf("rows = %d, want 1", len(res.Table.Rows))
				}
			}
		})
	}
}

func TestStores_Ping(t *testing.T) {
	dir := t.TempDir()

	stores, err := Open(context.Background(), Options{Backend: BackendFile, ModelBackend: BackendBadger, Dir: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer stores.Close()

	if stores.Badger == nil {
		t.Error("Badger handle should be exposed for the badger model backend")
	}
	if err := stores.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	if err := stores.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ping() after removing dir = %v, want ErrUnavailable", err)
	}
}

func TestOpen_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, Options{
		Backend: BackendRedis,
		Redis:   RedisOptions{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond},
	})
	if err == nil {
		t.Fatal("Open(redis) error = nil for unreachable server")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("Open(redis) error = %v, must not be ErrNotFound", err)
	}
}
