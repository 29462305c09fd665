// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
served by the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limiter rejections (counter)

NEIS Metrics:
  - neis_requests_total: Upstream requests (counter)
    Labels: service, status_code ("error" for transport failures)
  - neis_request_duration_seconds: Upstream latency (histogram)
  - neis_retries_total: Retries after 429 or 5xx (counter)
  - neis_rows_fetched_total: Decoded rows (counter)
  - neis_rows_skipped_total: Rows dropped as unusable (counter)
    Labels: service, reason

Assembly Metrics:
  - assembly_duration_seconds: One full pass (histogram)
  - assembly_passes_total: Passes by result (counter)
    Labels: result (success, failure, snapshot)
  - assembly_last_success_timestamp: Unix time of the last good pass (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

# Usage

	start := time.Now()
	metrics.TrackActiveRequest(true)
	defer metrics.TrackActiveRequest(false)
	// ... handle request ...
	metrics.RecordAPIRequest(r.Method, "/api", "200", time.Since(start))

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
