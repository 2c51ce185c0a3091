// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/lectern/internal/app"
	"github.com/tomtom215/lectern/internal/logging"
	"github.com/tomtom215/lectern/internal/recommend"
)

var (
	recommendUser     int
	recommendStrategy string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run the engine once for a reader and print the response",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("user") {
			return fmt.Errorf("--user is required")
		}
		if recommendStrategy != "" {
			cfg.Recommend.Strategy = recommendStrategy
		}

		ctx := cmd.Context()
		reco, err := app.Open(ctx, cfg, logging.WithComponent("recommend"))
		if err != nil {
			return err
		}
		defer reco.Close()

		return runRecommend(ctx, reco.Engine, recommendUser, cmd.OutOrStdout())
	},
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendUser, "user", "u", 0, "Reader ID")
	recommendCmd.Flags().StringVar(&recommendStrategy, "strategy", "", "Override the configured strategy: category or item")
}

// recommender is the engine method the command needs.
type recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// runRecommend prints the full engine response, trace included, as indented JSON.
func runRecommend(ctx context.Context, engine recommender, userID int, out io.Writer) error {
	resp, err := engine.Recommend(ctx, recommend.Request{
		UserID:    userID,
		RequestID: logging.GenerateRequestID(),
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
