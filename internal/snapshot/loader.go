// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/lectern/internal/inference"
	"github.com/tomtom215/lectern/internal/logging"
	"github.com/tomtom215/lectern/internal/recommend"
	"github.com/tomtom215/lectern/internal/resource"
)

// DefaultFetchTimeout bounds one snapshot load.
const DefaultFetchTimeout = 30 * time.Second

// Names are the resource names of the snapshot inputs.
type Names struct {
	Model          string
	CategoryCounts string
	History        string
	Catalog        string
}

// DefaultNames returns the standard resource names.
func DefaultNames() Names {
	return Names{
		Model:          "svd.json",
		CategoryCounts: "cat_rating_by_user.csv",
		History:        "articles_by_user.csv",
		Catalog:        "articles_metadata.csv",
	}
}

// Options configures a Loader.
type Options struct {
	Names        Names
	FetchTimeout time.Duration

	// Provider replaces the stored model blob, e.g. a remote inference
	// service. When set, the model resource is not fetched.
	Provider inference.Provider

	// CatalogRule is an optional CEL filter over catalog rows.
	CatalogRule string
}

// Loader builds a fresh recommend.Snapshot from a resource store on every
// call. Nothing is cached between calls.
type Loader struct {
	store    resource.Store
	names    Names
	timeout  time.Duration
	provider inference.Provider
	rule     *CatalogRule
	logger   zerolog.Logger
}

// NewLoader validates opts and compiles the catalog rule.
func NewLoader(store resource.Store, opts Options) (*Loader, error) {
	if store == nil {
		return nil, errors.New("resource store is required")
	}
	names := opts.Names
	defaults := DefaultNames()
	if names.Model == "" {
		names.Model = defaults.Model
	}
	if names.CategoryCounts == "" {
		names.CategoryCounts = defaults.CategoryCounts
	}
	if names.History == "" {
		names.History = defaults.History
	}
	if names.Catalog == "" {
		names.Catalog = defaults.Catalog
	}

	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	l := &Loader{
		store:    store,
		names:    names,
		timeout:  timeout,
		provider: opts.Provider,
		logger:   logging.WithComponent("snapshot"),
	}
	if opts.CatalogRule != "" {
		rule, err := CompileCatalogRule(opts.CatalogRule)
		if err != nil {
			return nil, err
		}
		l.rule = rule
	}
	return l, nil
}

// Load fetches the model and the three tables concurrently and parses them.
// Fetch failures match recommend.ErrResourceUnavailable; parse failures
// match recommend.ErrMalformedRecord.
func (l *Loader) Load(ctx context.Context) (*recommend.Snapshot, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	snap := &recommend.Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	if l.provider != nil {
		snap.Model = l.provider
	} else {
		g.Go(func() error {
			res, err := l.fetch(gctx, l.names.Model, resource.KindModel)
			if err != nil {
				return err
			}
			model, err := inference.Decode(res.Blob)
			if err != nil {
				return fmt.Errorf("%s: %w", l.names.Model, err)
			}
			snap.Model = model
			return nil
		})
	}

	g.Go(func() error {
		res, err := l.fetch(gctx, l.names.CategoryCounts, resource.KindTable)
		if err != nil {
			return err
		}
		snap.CategoryCounts, err = parseCategoryCounts(l.names.CategoryCounts, res.Table)
		return err
	})

	g.Go(func() error {
		res, err := l.fetch(gctx, l.names.History, resource.KindTable)
		if err != nil {
			return err
		}
		snap.History, err = parseHistory(l.names.History, res.Table)
		return err
	})

	g.Go(func() error {
		res, err := l.fetch(gctx, l.names.Catalog, resource.KindTable)
		if err != nil {
			return err
		}
		snap.Catalog, err = parseCatalog(l.names.Catalog, res.Table, l.rule)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.Popularity = recommend.PopularityFromHistory(snap.History)

	l.logger.Debug().
		Int("category_counts", len(snap.CategoryCounts)).
		Int("history", len(snap.History)).
		Int("catalog", len(snap.Catalog)).
		Dur("duration", time.Since(start)).
		Msg("Snapshot loaded")

	return snap, nil
}

// fetch classifies store failures. Malformed content keeps its own sentinel.
func (l *Loader) fetch(ctx context.Context, name string, kind resource.Kind) (*resource.Resource, error) {
	res, err := l.store.Fetch(ctx, name, kind)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrMalformedRecord), errors.Is(err, recommend.ErrResourceUnavailable):
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	default:
		return nil, fmt.Errorf("fetch %s: %w: %w", name, recommend.ErrResourceUnavailable, err)
	}

	if kind == resource.KindTable && res.Table == nil {
		return nil, fmt.Errorf("fetch %s: %w: store returned no table", name, recommend.ErrMalformedRecord)
	}
	return res, nil
}
