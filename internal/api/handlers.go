// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/hdmeal-api/internal/cachepolicy"
	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/models"
	"github.com/tomtom215/hdmeal-api/internal/validation"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// ReportBuilder produces reports. *assembler.Assembler implements it.
type ReportBuilder interface {
	Build(ctx context.Context, version string) (*models.Report, error)
	Window() *window.DateWindow
	LastSuccess() time.Time
}

// BreakerState reports the upstream circuit breaker state
// ("closed", "half-open" or "open"). *neis.CircuitBreakerClient implements it.
type BreakerState interface {
	State() string
}

// HandlerConfig holds the response policy knobs.
type HandlerConfig struct {
	// MaxAge is the shared-cache max-age in seconds (s-maxage).
	MaxAge int

	// RequestTimeout bounds one assembly pass. 0 leaves the request context alone.
	RequestTimeout time.Duration
}

// Handler serves reports and health probes.
type Handler struct {
	reports   ReportBuilder
	breaker   BreakerState
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a Handler. A zero MaxAge falls back to cachepolicy.DefaultMaxAge.
func NewHandler(reports ReportBuilder, cfg HandlerConfig) *Handler {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = cachepolicy.DefaultMaxAge
	}
	return &Handler{
		reports:   reports,
		config:    cfg,
		startTime: time.Now(),
	}
}

// WithBreaker attaches a circuit breaker whose state readiness reports.
func (h *Handler) WithBreaker(b BreakerState) *Handler {
	h.breaker = b
	return h
}

// ParseVersion validates an API version string.
func ParseVersion(version string) (string, error) {
	if !validation.IsSupportedVersion(version) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	return version, nil
}

// Respond renders the reply for a version. It never returns nil.
func (h *Handler) Respond(ctx context.Context, version string) *Response {
	logger := logging.Ctx(ctx)

	version, err := ParseVersion(version)
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected request")
		return NotFound()
	}

	if h.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.RequestTimeout)
		defer cancel()
	}

	report, err := h.reports.Build(ctx, version)
	if err != nil {
		status := statusForError(err)
		logger.Error().Err(err).Str("version", version).Int("status", status).Msg("Failed to build report")
		return errorResponse(status)
	}

	body, err := models.Marshal(report)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode report")
		return errorResponse(http.StatusInternalServerError)
	}

	resp := jsonResponse(http.StatusOK, body)
	resp.Header.Set("Cache-Control", cachepolicy.Header(h.reports.Window().Now(), h.config.MaxAge))
	return resp
}

// Report handles GET /api?version=vN and GET /api/{version}.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	h.Respond(r.Context(), versionFromRequest(r)).Write(w)
}

// NotFound handles every unmatched route with the same body as an unknown version.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	NotFound().Write(w)
}

// MethodNotAllowed answers non-GET requests on known routes.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, HEAD, OPTIONS")
	errorResponse(http.StatusMethodNotAllowed).Write(w)
}

// versionFromRequest prefers the {version} path segment and otherwise takes the
// last "version" query value.
func versionFromRequest(r *http.Request) string {
	if v := chi.URLParam(r, "version"); v != "" {
		return v
	}
	values := r.URL.Query()["version"]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
