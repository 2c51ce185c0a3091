// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package supervisor provides process supervision for Lectern using suture v4.

# Overview

Long-running services are organized into two layers:

	RootSupervisor ("lectern")
	├── DataSupervisor ("data-layer")
	│   └── BadgerGCService (badger backend on disk only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing maintenance job restarts inside the data layer without touching
the HTTP server.

Supervisor events (start, stop, failure, backoff) are logged through
sutureslog. When no slog logger is supplied the tree bridges to the global
zerolog logger via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(nil, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(httpService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Configuration

TreeConfig fields default to suture's own values when zero:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds
*/
package supervisor
