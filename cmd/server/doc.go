// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package main is the entry point for the HDMeal API server.

The server answers GET /api?version=vN with the meal, schedule and timetable
of one school for the 21 days around today (Asia/Seoul), fetched from the
NEIS Open API hub and merged into one JSON object keyed by date.

# Application Architecture

	RootSupervisor ("hdmeal")
	├── UpstreamSupervisor ("upstream-layer")
	│   └── Snapshot warmer (optional, cache.warm_interval + cache.snapshot_ttl)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

# Configuration

Koanf v2 with layered sources (highest priority wins):
  - Environment variables, also read from a .env file when present
  - Config file (config.yaml)
  - Built-in defaults

Required:
  - NEIS_OPENAPI_TOKEN: NEIS Open API key
  - ATPT_OFCDC_SC_CODE: education office code (e.g. J10)
  - SD_SCHUL_CODE: school code (e.g. 7530079)
  - NUM_OF_GRADES, NUM_OF_CLASSES: timetable grid shape

# Endpoints

	GET /api?version=v2|v3|v4   date-keyed report
	GET /api/{version}          same, version in the path
	GET /health/live            liveness
	GET /health/ready           readiness (503 while the NEIS breaker is open)
	GET /metrics                Prometheus metrics

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within server.shutdown_timeout.
*/
package main
