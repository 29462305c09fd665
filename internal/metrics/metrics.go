// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - inbound API latency and throughput
// - NEIS upstream calls (latency, status, rows, retries)
// - assembly passes and the snapshot cache
// - the NEIS circuit breaker

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// NEIS Upstream Metrics
	NEISRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neis_requests_total",
			Help: "Total number of NEIS hub requests by service and outcome",
		},
		[]string{"service", "status_code"}, // status_code: HTTP code or "error" for transport failures
	)

	NEISRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neis_request_duration_seconds",
			Help:    "NEIS hub request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service"},
	)

	NEISRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neis_retries_total",
			Help: "Total number of NEIS request retries after 429 or 5xx",
		},
		[]string{"service"},
	)

	NEISRowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neis_rows_fetched_total",
			Help: "Total number of rows decoded from NEIS responses",
		},
		[]string{"service"},
	)

	NEISRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neis_rows_skipped_total",
			Help: "Total number of NEIS rows dropped as unusable",
		},
		[]string{"service", "reason"},
	)

	NEISResultErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neis_result_errors_total",
			Help: "Total number of ERROR-xxx results from NEIS, served as empty data",
		},
		[]string{"service", "code"},
	)

	// Assembly Metrics
	AssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assembly_duration_seconds",
			Help:    "Duration of one assembly pass (all three parsers plus merge)",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	AssemblyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assembly_passes_total",
			Help: "Total number of assembly passes by result",
		},
		[]string{"result"}, // result: "success", "failure", "snapshot"
	)

	AssemblyLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assembly_last_success_timestamp",
			Help: "Unix timestamp of the last successful assembly pass",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordNEISRequest records one NEIS HTTP round trip. statusCode 0 means the
// request never got a response.
func RecordNEISRequest(service string, statusCode int, duration time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	NEISRequestsTotal.WithLabelValues(service, code).Inc()
	NEISRequestDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordNEISRows records decoded rows for a service.
func RecordNEISRows(service string, rows int) {
	NEISRowsFetched.WithLabelValues(service).Add(float64(rows))
}

// RecordNEISRowSkipped records a dropped row.
func RecordNEISRowSkipped(service, reason string) {
	NEISRowsSkipped.WithLabelValues(service, reason).Inc()
}

// RecordNEISResultError records an ERROR-xxx result code.
func RecordNEISResultError(service, code string) {
	NEISResultErrors.WithLabelValues(service, code).Inc()
}

// RecordAssembly records an assembly pass.
func RecordAssembly(duration time.Duration, err error) {
	AssemblyDuration.Observe(duration.Seconds())
	if err != nil {
		AssemblyTotal.WithLabelValues("failure").Inc()
		return
	}
	AssemblyTotal.WithLabelValues("success").Inc()
	AssemblyLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordSnapshotServed records a request answered from the snapshot cache.
func RecordSnapshotServed() {
	AssemblyTotal.WithLabelValues("snapshot").Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}
