// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
)

func timetablePage(n int, date string) []neismodel.TimetableRow {
	rows := make([]neismodel.TimetableRow, n)
	for i := range rows {
		rows[i] = neismodel.TimetableRow{Date: neismodel.Text(date), Grade: "1", Class: "1", Activity: "자습"}
	}
	return rows
}

func TestTimetableParser_PaginationTerminates(t *testing.T) {
	t.Parallel()

	src := &fakeSource{pages: [][]neismodel.TimetableRow{
		timetablePage(1000, "20240304"),
		timetablePage(1000, "20240305"),
		timetablePage(437, "20240306"),
		timetablePage(1000, "20240307"), // never requested
	}}

	view, err := NewTimetableParser(src, testWindow(t), 3, 10, 0).Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.pageCalls != 3 {
		t.Errorf("page calls = %d, want 3", src.pageCalls)
	}
	if view.Dates() != 3 {
		t.Errorf("dates = %d, want 3", view.Dates())
	}
	if src.from != "20240224" || src.to != "20240315" {
		t.Errorf("bounds = %s..%s", src.from, src.to)
	}
}

func TestTimetableParser_EmptyFirstPage(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	view, err := NewTimetableParser(src, testWindow(t), 3, 10, 0).Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.pageCalls != 1 || view.Dates() != 0 {
		t.Errorf("page calls = %d, dates = %d", src.pageCalls, view.Dates())
	}
}

func TestTimetableParser_PageErrorIsFatal(t *testing.T) {
	t.Parallel()

	upstream := errors.New("502 from hub")
	src := &fakeSource{
		pages:     [][]neismodel.TimetableRow{timetablePage(1000, "20240304")},
		err:       upstream,
		errOnPage: 2,
	}

	view, err := NewTimetableParser(src, testWindow(t), 3, 10, 0).Parse(context.Background())
	if !errors.Is(err, upstream) {
		t.Fatalf("err = %v, want %v", err, upstream)
	}
	if view != nil {
		t.Error("view returned alongside error")
	}
	if !strings.Contains(err.Error(), "page 2") {
		t.Errorf("err = %q, want page number", err)
	}
}

func TestTimetableParser_PageCap(t *testing.T) {
	t.Parallel()

	src := &fakeSource{pageSize: 2, pages: [][]neismodel.TimetableRow{
		timetablePage(2, "20240304"),
		timetablePage(2, "20240305"),
		timetablePage(2, "20240306"),
		timetablePage(2, "20240307"),
	}}

	view, err := NewTimetableParser(src, testWindow(t), 1, 1, 3).Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.pageCalls != 3 || view.Dates() != 3 {
		t.Errorf("page calls = %d, dates = %d, want 3 and 3", src.pageCalls, view.Dates())
	}
}

func TestTimetableParser_GridCompleteness(t *testing.T) {
	t.Parallel()

	w := testWindow(t)
	src := &fakeSource{pages: [][]neismodel.TimetableRow{{
		{Date: "20240304", Grade: "1", Class: "2", Period: "1", Activity: "국어"},
		{Date: "20240304", Grade: "3", Class: "10", Period: "1", Activity: "수학"},
		{Date: "20240304", Grade: "1", Class: "2", Period: "2", Activity: SaturdayClosure},
		{Date: "20240304", Grade: "1", Class: "2", Period: "3", Activity: "영어"},
		{Date: "20240305", Grade: "2", Class: "1", Period: "1", Activity: "과학"},
		{Date: "20240304", Grade: "1", Class: "2", Period: "4", Activity: "체육"}, // out of order on purpose
		{Date: "20240305", Grade: "4", Class: "1", Period: "1", Activity: "범위밖"},
		{Date: "20240305", Grade: "1", Class: "11", Period: "1", Activity: "범위밖"},
		{Date: "20240305", Grade: "x", Class: "1", Period: "1", Activity: "범위밖"},
		{Date: "20240309", Grade: "1", Class: "1", Period: "1", Activity: SaturdayClosure},
	}}}

	view, err := NewTimetableParser(src, w, 3, 10, 0).Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, date := range []string{"20240304", "20240305", "20240309", "20240315"} {
		grid := view.Entry(day(t, w, date))
		if grid.Grades() != 3 || grid.Classes() != 10 {
			t.Errorf("%s grid = %dx%d, want 3x10", date, grid.Grades(), grid.Classes())
		}
		cells := 0
		for g := 1; g <= 3; g++ {
			for c := 1; c <= 10; c++ {
				if grid.Cell(g, c) == nil {
					t.Errorf("%s cell %d-%d is nil", date, g, c)
				}
				cells++
			}
		}
		if cells != 30 {
			t.Errorf("%s cells = %d, want 30", date, cells)
		}
	}

	march4 := view.Entry(day(t, w, "20240304"))
	if got := strings.Join(march4.Cell(1, 2), ","); got != "국어,영어,체육" {
		t.Errorf("1-2 = %q, want 국어,영어,체육", got)
	}
	if got := strings.Join(march4.Cell(3, 10), ","); got != "수학" {
		t.Errorf("3-10 = %q", got)
	}

	march5 := view.Entry(day(t, w, "20240305"))
	if got := strings.Join(march5.Cell(2, 1), ","); got != "과학" {
		t.Errorf("2-1 = %q", got)
	}

	// Closure-only date still gets a grid, with the closure removed.
	if len(view.Entry(day(t, w, "20240309")).Cell(1, 1)) != 0 {
		t.Error("Saturday closure left in cell")
	}
	if view.Dates() != 3 {
		t.Errorf("dates = %d, want 3", view.Dates())
	}

	if out := marshal(t, march4); strings.Contains(out, SaturdayClosure) {
		t.Errorf("grid contains closure: %s", out)
	}
}

func TestTimetableParser_ActivityKeptVerbatim(t *testing.T) {
	t.Parallel()

	w := testWindow(t)
	src := &fakeSource{pages: [][]neismodel.TimetableRow{{
		{Date: "20240304", Grade: "1", Class: "1", Period: "1", Activity: " 국어 "},
		{Date: "20240304", Grade: "1", Class: "1", Period: "2", Activity: " " + SaturdayClosure + " "},
		{Date: "20240304", Grade: "1", Class: "1", Period: "3", Activity: "수학"},
	}}}

	view, err := NewTimetableParser(src, w, 1, 1, 0).Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := view.Entry(day(t, w, "20240304")).Cell(1, 1)
	want := []string{" 국어 ", "수학"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("cell = %q, want %q", got, want)
	}
}
