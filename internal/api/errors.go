// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package api

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnsupportedVersion is returned by ParseVersion for anything but v2, v3 and v4.
var ErrUnsupportedVersion = errors.New("unsupported api version")

// statusForError maps an assembly failure to the response status. A pass that
// ran out of time is a gateway timeout; every other upstream failure is a bad
// gateway.
func statusForError(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
