// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package services adapts long-running components to suture.Service.

  - HTTPServerService: *http.Server with graceful shutdown
  - WarmerService: periodic assembly passes that keep the report snapshot fresh

Example:

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))
	tree.AddUpstreamService(services.NewWarmerService(asm, cfg.Cache.WarmInterval, cfg.Server.RequestTimeout))
*/
package services
