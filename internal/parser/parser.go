// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package parser

import (
	"strings"
	"time"

	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/metrics"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// SaturdayClosure is the event and activity name NEIS uses for Saturday
// closures. It is filtered from schedules and timetables.
const SaturdayClosure = "토요휴업일"

// Skip reasons recorded in neis_rows_skipped_total.
const (
	skipMissingField = "missing_field"
	skipBadDate      = "bad_date"
	skipOutOfRange   = "out_of_range"
)

// parseRowDate parses a YYYYMMDD row date in the window's zone. ok is false
// (and the skip recorded) when the field is empty or malformed.
func parseRowDate(w *window.DateWindow, service string, raw neismodel.Text) (time.Time, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		skipRow(service, skipMissingField, "date missing")
		return time.Time{}, false
	}
	date, err := w.ParseCompact(s)
	if err != nil {
		skipRow(service, skipBadDate, "date malformed")
		return time.Time{}, false
	}
	return date, true
}

func skipRow(service, reason, msg string) {
	metrics.RecordNEISRowSkipped(service, reason)
	logging.Debug().Str("service", service).Str("reason", reason).Msg("Skipping NEIS row: " + msg)
}
