// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore serves resources from an embedded BadgerDB.
// Keys are "model:<name>" and "table:<name>"; tables are stored as CSV bytes.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens a BadgerDB at path. An empty path opens an in-memory
// database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return db, nil
}

// NewBadgerStore creates a store over an open database. The caller owns db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Fetch reads a resource.
func (s *BadgerStore) Fetch(ctx context.Context, name string, kind Kind) (res *Resource, err error) {
	defer func(start time.Time) { observe("badger", kind, start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key(kind, name)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", name, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return decode(name, kind, data)
}

// Put stores a resource, replacing any previous value.
func (s *BadgerStore) Put(ctx context.Context, name string, kind Kind, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key(kind, name)), data); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		return nil
	})
}
