// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package models

import (
	"strconv"
	"strings"
)

// ScheduleEvent is one school event and the grades it applies to.
//
// JSON: ["현장학습", [1, 2]]
type ScheduleEvent struct {
	Name   string
	Grades []int
}

// MarshalJSON renders the event as a two-element array.
func (e ScheduleEvent) MarshalJSON() ([]byte, error) {
	grades := e.Grades
	if grades == nil {
		grades = []int{}
	}
	return Marshal([]interface{}{e.Name, grades})
}

// Format renders the event as "name(1학년, 2학년)", or just "name" when no grade applies.
func (e ScheduleEvent) Format() string {
	if len(e.Grades) == 0 {
		return e.Name
	}
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteByte('(')
	for i, g := range e.Grades {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(g))
		b.WriteString("학년")
	}
	b.WriteByte(')')
	return b.String()
}

// ScheduleVariant selects how a ScheduleEntry renders its events.
type ScheduleVariant int

const (
	// ScheduleDefault renders each event as a formatted string.
	ScheduleDefault ScheduleVariant = iota
	// ScheduleStructured renders each event as [name, [grades...]] (API v4).
	ScheduleStructured
)

// ScheduleEntry is the per-date schedule value in a report.
// A date without events renders as null, never as an empty array.
type ScheduleEntry struct {
	Events  []ScheduleEvent
	Variant ScheduleVariant
}

// MarshalJSON renders null, a list of strings, or a list of [name, grades] pairs.
func (e ScheduleEntry) MarshalJSON() ([]byte, error) {
	if len(e.Events) == 0 {
		return []byte("null"), nil
	}
	if e.Variant == ScheduleStructured {
		return Marshal(e.Events)
	}
	formatted := make([]string, len(e.Events))
	for i := range e.Events {
		formatted[i] = e.Events[i].Format()
	}
	return Marshal(formatted)
}
