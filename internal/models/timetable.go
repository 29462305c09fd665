// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package models

import (
	"bytes"
	"strconv"
)

// TimetableGrid holds the period activities of one date for every grade and class.
// The shape is fixed at construction; every cell exists and starts empty.
//
// JSON: {"1": {"1": ["국어", "수학"], "2": []}, "2": {...}}
type TimetableGrid struct {
	cells [][][]string
}

// NewTimetableGrid returns a grades × classes grid of empty cells.
func NewTimetableGrid(grades, classes int) *TimetableGrid {
	if grades < 0 {
		grades = 0
	}
	if classes < 0 {
		classes = 0
	}
	cells := make([][][]string, grades)
	for g := range cells {
		cells[g] = make([][]string, classes)
		for c := range cells[g] {
			cells[g][c] = []string{}
		}
	}
	return &TimetableGrid{cells: cells}
}

// Grades returns the number of grades in the grid.
func (t *TimetableGrid) Grades() int { return len(t.cells) }

// Classes returns the number of classes per grade.
func (t *TimetableGrid) Classes() int {
	if len(t.cells) == 0 {
		return 0
	}
	return len(t.cells[0])
}

// InRange reports whether grade and class (both 1-based) address a cell.
func (t *TimetableGrid) InRange(grade, class int) bool {
	return grade >= 1 && grade <= t.Grades() && class >= 1 && class <= t.Classes()
}

// Append adds an activity to the end of a cell. It returns false when the
// cell is outside the grid.
func (t *TimetableGrid) Append(grade, class int, activity string) bool {
	if !t.InRange(grade, class) {
		return false
	}
	t.cells[grade-1][class-1] = append(t.cells[grade-1][class-1], activity)
	return true
}

// Cell returns the activities of a cell, or nil when it is outside the grid.
func (t *TimetableGrid) Cell(grade, class int) []string {
	if !t.InRange(grade, class) {
		return nil
	}
	return t.cells[grade-1][class-1]
}

// MarshalJSON renders nested objects keyed by grade then class, both in numeric order.
func (t *TimetableGrid) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for g, classes := range t.cells {
		if g > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(g + 1)))
		buf.WriteString(":{")
		for c, activities := range classes {
			if c > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Quote(strconv.Itoa(c + 1)))
			buf.WriteByte(':')
			b, err := Marshal(activities)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
