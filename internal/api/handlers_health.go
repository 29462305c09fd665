// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/models"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// LivenessStatus is the body of /health/live.
type LivenessStatus struct {
	Alive  bool    `json:"alive"`
	Uptime float64 `json:"uptime_seconds"`
}

// ReadinessStatus is the body of /health/ready.
type ReadinessStatus struct {
	Ready          bool       `json:"ready"`
	CircuitBreaker string     `json:"circuit_breaker,omitempty"`
	LastPass       *time.Time `json:"last_successful_pass,omitempty"`
	Today          string     `json:"today"`
}

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of NEIS.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondHealth(w, http.StatusOK, LivenessStatus{
		Alive:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 503 while the NEIS circuit breaker is open, since every report
// request would fail fast with 502.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadinessStatus{
		Ready: true,
		Today: window.Key(h.reports.Window().Today()),
	}

	if last := h.reports.LastSuccess(); !last.IsZero() {
		status.LastPass = &last
	}
	if h.breaker != nil {
		status.CircuitBreaker = h.breaker.State()
		status.Ready = status.CircuitBreaker != "open"
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	respondHealth(w, code, status)
}

func respondHealth(w http.ResponseWriter, status int, body interface{}) {
	data, err := models.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal health response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write health response")
	}
}
