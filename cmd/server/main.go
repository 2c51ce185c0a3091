// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/lectern/internal/api"
	"github.com/tomtom215/lectern/internal/app"
	"github.com/tomtom215/lectern/internal/config"
	"github.com/tomtom215/lectern/internal/logging"
	"github.com/tomtom215/lectern/internal/supervisor"
	"github.com/tomtom215/lectern/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("backend", cfg.Resources.Backend).
		Str("model_backend", cfg.Resources.EffectiveModelBackend()).
		Msg("Starting Lectern")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reco, err := app.Open(ctx, cfg, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	defer func() {
		if err := reco.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing resource backends")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	server, err := newHTTPServer(cfg, reco)
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, services.HTTPServiceConfig{
		Addr:            server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logging.WithComponent("supervisor")))

	// In-memory badger has no value log to collect.
	if reco.Stores.Badger != nil && cfg.Resources.BadgerPath != "" {
		tree.AddDataService(services.NewBadgerGCService(reco.Stores.Badger, services.BadgerGCConfig{}, logging.WithComponent("supervisor")))
	}

	logging.Info().Msg("Starting supervisor tree...")
	return serve(ctx, tree, cfg.Server.ShutdownTimeout+shutdownMargin)
}

// shutdownMargin is added to the HTTP drain timeout when waiting for the
// supervisor tree to stop.
const shutdownMargin = 5 * time.Second

// serve runs the tree until ctx is canceled or the tree stops on its own.
// ServeBackground delivers exactly one value and never closes its channel,
// so after cancellation it is received once, bounded by grace.
func serve(ctx context.Context, tree *supervisor.SupervisorTree, grace time.Duration) error {
	errCh := tree.ServeBackground(ctx)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor tree: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case <-timer.C:
		logging.Warn().Dur("grace", grace).Msg("Supervisor did not stop in time")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	return nil
}

// newHTTPServer wires the API handler, middleware and router.
func newHTTPServer(cfg *config.Config, reco *app.Components) (*http.Server, error) {
	handler, err := api.NewHandler(reco.Engine, api.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		Info: api.ServiceInfo{
			Version:      version,
			Environment:  cfg.Server.Environment,
			Backend:      cfg.Resources.Backend,
			ModelBackend: cfg.Resources.EffectiveModelBackend(),
			ModelSource:  app.ModelSource(cfg),
		},
		ReadyCheck: reco.Stores.Ping,
	})
	if err != nil {
		return nil, fmt.Errorf("create API handler: %w", err)
	}

	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, mw).Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}, nil
}
