// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package supervisor provides suture-based process supervision for the server.

Tree:

	hdmeal (root)
	├── upstream-layer
	│   └── snapshot-warmer   (cache.warm_interval > 0 and cache.snapshot_ttl > 0)
	└── api-layer
	    └── http-server

Supervisor events (restarts, backoff, timeouts) are logged through sutureslog
with the zerolog-backed slog logger from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}
*/
package supervisor
