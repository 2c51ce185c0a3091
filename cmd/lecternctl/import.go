// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lectern/internal/app"
	"github.com/tomtom215/lectern/internal/config"
	"github.com/tomtom215/lectern/internal/resource"
)

var (
	importFrom string
	importTo   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the model and tables from a directory into badger or redis",
	Long: `Reads the four configured resource files from --from and stores them in
the --to backend under the same names. The model file is stored as a model
blob, the CSV files as tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from := importFrom
		if from == "" {
			from = cfg.Resources.Dir
		}
		to := importTo
		if to == "" {
			to = cfg.Resources.Backend
		}
		if to != resource.BackendBadger && to != resource.BackendRedis {
			return fmt.Errorf("import target must be %s or %s, got %q", resource.BackendBadger, resource.BackendRedis, to)
		}
		if to == resource.BackendBadger && cfg.Resources.BadgerPath == "" {
			return errors.New("import into badger requires BADGER_PATH; an in-memory database would be discarded")
		}

		opts := app.ResourceOptions(cfg)
		opts.Backend = to
		opts.ModelBackend = ""
		opts.Breaker = nil

		ctx := cmd.Context()
		stores, err := resource.Open(ctx, opts)
		if err != nil {
			return err
		}
		defer stores.Close()

		if stores.Writer == nil {
			return fmt.Errorf("backend %s is read only", to)
		}
		return importResources(ctx, stores.Writer, from, cfg.Resources.Names, cmd.OutOrStdout())
	},
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "Source directory (default: resources.dir)")
	importCmd.Flags().StringVar(&importTo, "to", "", "Target backend: badger or redis (default: resources.backend)")
}

// importResources copies every named input from dir into w.
func importResources(ctx context.Context, w resource.Writer, dir string, names config.NamesConfig, out io.Writer) error {
	inputs := []struct {
		name string
		kind resource.Kind
	}{
		{names.Model, resource.KindModel},
		{names.CategoryCounts, resource.KindTable},
		{names.History, resource.KindTable},
		{names.Catalog, resource.KindTable},
	}

	for _, in := range inputs {
		data, err := os.ReadFile(filepath.Join(dir, in.name))
		if err != nil {
			return fmt.Errorf("read %s: %w", in.name, err)
		}
		if err := w.Put(ctx, in.name, in.kind, data); err != nil {
			return fmt.Errorf("store %s: %w", in.name, err)
		}
		fmt.Fprintf(out, "imported %-28s %-6s %d bytes\n", in.name, in.kind, len(data))
	}
	return nil
}
