// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package parser

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/hdmeal-api/internal/models"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// testWindow is 2024-02-24 .. 2024-03-15, centred on 2024-03-05 in Seoul.
func testWindow(t *testing.T) *window.DateWindow {
	t.Helper()
	loc, err := time.LoadLocation(window.DefaultTimezone)
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return window.New(time.Date(2024, 3, 5, 12, 0, 0, 0, loc), loc)
}

func day(t *testing.T, w *window.DateWindow, compact string) time.Time {
	t.Helper()
	d, err := w.ParseCompact(compact)
	if err != nil {
		t.Fatalf("ParseCompact(%q): %v", compact, err)
	}
	return d
}

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := models.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return string(b)
}

// fakeSource serves canned rows and records the bounds it was asked for.
type fakeSource struct {
	meals     []neismodel.MealRow
	schedules []neismodel.ScheduleRow
	pages     [][]neismodel.TimetableRow
	pageSize  int
	err       error
	errOnPage int

	from, to  string
	pageCalls int
}

func (f *fakeSource) FetchMeals(_ context.Context, from, to string) ([]neismodel.MealRow, error) {
	f.from, f.to = from, to
	return f.meals, f.err
}

func (f *fakeSource) FetchSchedules(_ context.Context, from, to string) ([]neismodel.ScheduleRow, error) {
	f.from, f.to = from, to
	return f.schedules, f.err
}

func (f *fakeSource) FetchTimetablePage(_ context.Context, from, to string, page int) ([]neismodel.TimetableRow, error) {
	f.from, f.to = from, to
	f.pageCalls++
	if f.errOnPage == page {
		return nil, f.err
	}
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func (f *fakeSource) PageSize() int {
	if f.pageSize == 0 {
		return 1000
	}
	return f.pageSize
}
