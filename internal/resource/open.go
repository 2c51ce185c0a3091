// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lectern/internal/breaker"
	"github.com/tomtom215/lectern/internal/logging"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendDuckDB = "duckdb"
)

// Options selects and configures the resource backends.
type Options struct {
	// Backend serves tables, and models unless ModelBackend is set.
	Backend string
	// ModelBackend optionally serves model blobs from a different backend.
	ModelBackend string

	Dir         string
	BadgerPath  string
	Redis       RedisOptions
	RedisPrefix string
	DuckDBPath  string

	// Breaker wraps every backend in a circuit breaker when non-nil.
	Breaker *breaker.Settings
}

// Stores is the opened backend set.
type Stores struct {
	// Store routes fetches to the configured backends.
	Store Store
	// Writer seeds the primary backend; nil when it is read-only (duckdb).
	Writer Writer
	// Badger is the open BadgerDB handle when a badger backend is in use.
	Badger *badger.DB

	closers []func() error
	pingers []func(ctx context.Context) error
}

type backend struct {
	store  Store
	writer Writer
}

// Open opens the configured backends. Callers must Close the result.
func Open(ctx context.Context, opts Options) (*Stores, error) {
	s := &Stores{}
	opened := map[string]backend{}

	get := func(name string) (backend, error) {
		if b, ok := opened[name]; ok {
			return b, nil
		}
		b, err := s.open(ctx, name, opts)
		if err != nil {
			return backend{}, err
		}
		if opts.Breaker != nil {
			b.store = NewBreakerStore(b.store, "resource-"+name, *opts.Breaker)
		}
		opened[name] = b
		return b, nil
	}

	primary, err := get(opts.Backend)
	if err != nil {
		s.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, err
	}
	s.Store = primary.store
	s.Writer = primary.writer

	if opts.ModelBackend != "" && opts.ModelBackend != opts.Backend {
		models, err := get(opts.ModelBackend)
		if err != nil {
			s.Close() //nolint:errcheck // best-effort cleanup on error path
			return nil, err
		}
		s.Store = &Router{Models: models.store, Tables: primary.store}
	}

	logging.Info().
		Str("backend", opts.Backend).
		Str("model_backend", opts.ModelBackend).
		Bool("circuit_breaker", opts.Breaker != nil).
		Msg("Resource stores opened")

	return s, nil
}

func (s *Stores) open(ctx context.Context, name string, opts Options) (backend, error) {
	switch name {
	case BackendFile, "":
		if opts.Dir == "" {
			return backend{}, errors.New("file backend requires a resource directory")
		}
		dir := opts.Dir
		s.pingers = append(s.pingers, func(context.Context) error {
			_, err := os.Stat(dir)
			return err
		})
		fs := NewFileStore(opts.Dir)
		return backend{store: fs, writer: fs}, nil

	case BackendBadger:
		db, err := OpenBadger(opts.BadgerPath)
		if err != nil {
			return backend{}, err
		}
		s.closers = append(s.closers, db.Close)
		s.Badger = db
		bs := NewBadgerStore(db)
		return backend{store: bs, writer: bs}, nil

	case BackendRedis:
		client, err := NewRedisClient(ctx, opts.Redis)
		if err != nil {
			return backend{}, err
		}
		s.closers = append(s.closers, client.Close)
		s.pingers = append(s.pingers, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		rs := NewRedisStore(client, opts.RedisPrefix)
		return backend{store: rs, writer: rs}, nil

	case BackendDuckDB:
		db, err := OpenDuckDB(opts.DuckDBPath)
		if err != nil {
			return backend{}, err
		}
		s.closers = append(s.closers, db.Close)
		s.pingers = append(s.pingers, db.PingContext)
		return backend{store: NewDuckDBStore(db, opts.Dir)}, nil

	default:
		return backend{}, fmt.Errorf("unknown resource backend %q", name)
	}
}

// Ping checks that every opened backend is reachable. It does not fetch
// any resource.
func (s *Stores) Ping(ctx context.Context) error {
	for _, ping := range s.pingers {
		if err := ping(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}
	return nil
}

// Close releases every opened backend handle.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
