// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

// Package logging provides centralized zerolog-based structured logging for Lectern.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from main
//   - JSON output for production, console output for development
//   - Request and correlation ID propagation through context.Context
//   - An slog adapter for Suture v4 supervision events
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("backend", "badger").Msg("Resource store ready")
//	logging.Error().Err(err).Msg("Snapshot load failed")
//
//	// Request-scoped logging
//	logging.Ctx(ctx).Info().Int("user_id", userID).Msg("Recommendation served")
//
// # Configuration
//
// Level and format come from the logging section of the configuration file
// or from the LOG_LEVEL, LOG_FORMAT and LOG_CALLER environment variables.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
