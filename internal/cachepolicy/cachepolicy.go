// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package cachepolicy computes the Cache-Control directive for a report.
//
// A shared cache may hold a report for DefaultMaxAge seconds and serve it stale
// while revalidating until local midnight, but never past it: the report's
// window is anchored to the local day.
package cachepolicy

import (
	"strconv"
	"time"
)

// DefaultMaxAge is the shared cache freshness lifetime in seconds.
const DefaultMaxAge = 1800

// SecondsUntilMidnight returns the whole seconds from now to the next local
// midnight in now's zone. The result is in [1, 86400] on days without a DST change.
func SecondsUntilMidnight(now time.Time) int {
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return int(midnight.Sub(now.Truncate(time.Second)) / time.Second)
}

// Header returns the Cache-Control value for a response built at now.
//
//	s-maxage=1800, stale-while-revalidate=<remaining-1800>   when remaining > maxAge
//	s-maxage=<remaining>                                     otherwise
func Header(now time.Time, maxAge int) string {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	remaining := SecondsUntilMidnight(now)
	if remaining > maxAge {
		return "s-maxage=" + strconv.Itoa(maxAge) +
			", stale-while-revalidate=" + strconv.Itoa(remaining-maxAge)
	}
	return "s-maxage=" + strconv.Itoa(remaining)
}
