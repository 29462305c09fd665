// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package window pins "today" once per process and derives the fixed date
// window every report covers.
package window

import (
	"fmt"
	"time"
	_ "time/tzdata" // Lambda and scratch images ship without a zoneinfo database
)

const (
	// DefaultTimezone is the civil time zone NEIS dates are expressed in.
	DefaultTimezone = "Asia/Seoul"

	// Radius is the number of days reported on each side of today.
	Radius = 10

	// Size is the number of dates in a window.
	Size = 2*Radius + 1

	// CompactLayout is the YYYYMMDD layout NEIS uses for dates.
	CompactLayout = "20060102"

	// KeyLayout is the YYYY-MM-DD layout used for response keys.
	KeyLayout = "2006-01-02"
)

// DateWindow is the ordered set of dates from today-Radius to today+Radius.
// It is immutable after New.
type DateWindow struct {
	now  time.Time
	loc  *time.Location
	days []time.Time
}

// New pins now in loc and builds the window around its civil date.
func New(now time.Time, loc *time.Location) *DateWindow {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	days := make([]time.Time, 0, Size)
	for offset := -Radius; offset <= Radius; offset++ {
		days = append(days, today.AddDate(0, 0, offset))
	}
	return &DateWindow{now: now, loc: loc, days: days}
}

// NewInZone loads the named zone and pins the current wall clock in it.
func NewInZone(name string) (*DateWindow, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return New(time.Now(), loc), nil
}

// Now returns the pinned instant.
func (w *DateWindow) Now() time.Time { return w.now }

// Location returns the window's time zone.
func (w *DateWindow) Location() *time.Location { return w.loc }

// Today returns the pinned civil date at local midnight.
func (w *DateWindow) Today() time.Time { return w.days[Radius] }

// Days returns a copy of the window's dates in ascending order.
func (w *DateWindow) Days() []time.Time {
	out := make([]time.Time, len(w.days))
	copy(out, w.days)
	return out
}

// Bounds returns the first and last date as YYYYMMDD strings.
func (w *DateWindow) Bounds() (from, to string) {
	return w.days[0].Format(CompactLayout), w.days[len(w.days)-1].Format(CompactLayout)
}

// Contains reports whether date falls on one of the window's days.
func (w *DateWindow) Contains(date time.Time) bool {
	d := Truncate(date, w.loc)
	return !d.Before(w.days[0]) && !d.After(w.days[len(w.days)-1])
}

// ParseCompact parses a YYYYMMDD string as a civil date in the window's zone.
func (w *DateWindow) ParseCompact(s string) (time.Time, error) {
	return time.ParseInLocation(CompactLayout, s, w.loc)
}

// Key formats date as the YYYY-MM-DD response key.
func Key(date time.Time) string {
	return date.Format(KeyLayout)
}

// Truncate returns the civil date of t in loc at midnight.
func Truncate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
