// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

/*
Package services provides suture.Service wrappers for Lectern components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and implements fmt.Stringer for supervisor log events.

# Available Services

HTTP Server (HTTPServerService):
  - Runs the API server's ListenAndServe in a goroutine
  - Drains in-flight requests with Shutdown on context cancellation
  - Returns listen failures so the supervisor restarts the server

BadgerDB GC (BadgerGCService):
  - Periodically calls RunValueLogGC on the resource database
  - Rewrites at most MaxRounds value log files per cycle
  - Stops quietly when the database rejects GC during close

# Usage

	tree.AddAPIService(services.NewHTTPServerService(server, services.HTTPServiceConfig{
	    Addr:            server.Addr,
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger))

	if stores.Badger != nil {
	    tree.AddDataService(services.NewBadgerGCService(stores.Badger, services.BadgerGCConfig{}, logger))
	}
*/
package services
