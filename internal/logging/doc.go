// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package logging provides zerolog-based structured logging for HDMeal API.
//
// The package provides:
//   - A global zerolog logger configured once at startup via Init
//   - JSON output for production and console output for development
//   - Request-scoped loggers carrying the request ID (Ctx)
//   - An slog adapter so suture's sutureslog hook writes through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Upstream call failed")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is never written.
package logging
