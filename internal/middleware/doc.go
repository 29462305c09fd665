// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - Request ID: X-Request-ID propagation into the logging context
  - Prometheus Metrics: request count, latency and in-flight gauge, labelled by chi route pattern
  - Compression: gzip (klauspost/compress) for clients that accept it

Each middleware has the http.HandlerFunc shape; the api package adapts them to
chi's func(http.Handler) http.Handler.

Middleware Stack:

The router applies them in this order:

	RequestID -> RealIP -> Recoverer -> CORS -> RateLimit -> PrometheusMetrics -> Compression -> handler

Metrics wrap compression so recorded durations include gzip time, and the
request ID is assigned first so every later log line carries it.
*/
package middleware
