// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package assembler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/hdmeal-api/internal/models"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// fakeSource serves one day of data for each entity and counts calls.
type fakeSource struct {
	mealCalls      atomic.Int32
	scheduleCalls  atomic.Int32
	timetableCalls atomic.Int32

	mu           sync.Mutex
	timetableErr error
}

func (f *fakeSource) FetchMeals(context.Context, string, string) ([]neismodel.MealRow, error) {
	f.mealCalls.Add(1)
	return []neismodel.MealRow{
		{Date: "20240304", Dishes: "쌀밥<br/>돈육김치찌개1.5.6.9.", Calories: "650.5 Kcal"},
	}, nil
}

func (f *fakeSource) FetchSchedules(context.Context, string, string) ([]neismodel.ScheduleRow, error) {
	f.scheduleCalls.Add(1)
	return []neismodel.ScheduleRow{
		{Date: "20240304", EventName: "현장학습", Grade1: "Y", Grade2: "Y"},
		{Date: "20240309", EventName: "토요휴업일"},
	}, nil
}

func (f *fakeSource) FetchTimetablePage(ctx context.Context, _, _ string, _ int) ([]neismodel.TimetableRow, error) {
	f.timetableCalls.Add(1)
	f.mu.Lock()
	err := f.timetableErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return []neismodel.TimetableRow{
		{Date: "20240304", Grade: "1", Class: "1", Activity: "국어"},
	}, nil
}

func (f *fakeSource) PageSize() int { return 1000 }

func (f *fakeSource) failTimetable(err error) {
	f.mu.Lock()
	f.timetableErr = err
	f.mu.Unlock()
}

func testWindow(t *testing.T) *window.DateWindow {
	t.Helper()
	loc, err := time.LoadLocation(window.DefaultTimezone)
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return window.New(time.Date(2024, 3, 5, 12, 0, 0, 0, loc), loc)
}

func newTestAssembler(t *testing.T, ttl time.Duration) (*Assembler, *fakeSource) {
	t.Helper()
	src := &fakeSource{}
	return New(src, testWindow(t), Options{Grades: 1, Classes: 2, SnapshotTTL: ttl}), src
}

func record(t *testing.T, r *models.Report, date string) string {
	t.Helper()
	rec, ok := r.Get(date)
	if !ok {
		t.Fatalf("date %s missing from report", date)
	}
	b, err := models.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return string(b)
}

func TestBuild_EveryWindowDateInOrder(t *testing.T) {
	t.Parallel()

	a, _ := newTestAssembler(t, 0)
	report, err := a.Build(context.Background(), "v3")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	days := a.Window().Days()
	if len(report.Days) != len(days) {
		t.Fatalf("len(Days) = %d, want %d", len(report.Days), len(days))
	}
	for i, d := range days {
		if report.Days[i].Date != window.Key(d) {
			t.Errorf("Days[%d] = %s, want %s", i, report.Days[i].Date, window.Key(d))
		}
	}
	if report.Days[0].Date != "2024-02-24" || report.Days[20].Date != "2024-03-15" {
		t.Errorf("range = %s..%s", report.Days[0].Date, report.Days[20].Date)
	}
}

func TestBuild_VersionVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		want    string
	}{
		{
			version: "v2",
			want: `{"Meal":[["쌀밥","돈육김치찌개"],650.5],"Schedule":["현장학습(1학년, 2학년)"],` +
				`"Timetable":{"1":{"1":["국어"],"2":[]}}}`,
		},
		{
			version: "v3",
			want: `{"Meal":[[["쌀밥",[]],["돈육김치찌개",[1,5,6,9]]],650.5],"Schedule":["현장학습(1학년, 2학년)"],` +
				`"Timetable":{"1":{"1":["국어"],"2":[]}}}`,
		},
		{
			version: "v4",
			want: `{"Meal":[[["쌀밥",[]],["돈육김치찌개",[1,5,6,9]]],650.5],"Schedule":[["현장학습",[1,2]]],` +
				`"Timetable":{"1":{"1":["국어"],"2":[]}}}`,
		},
	}

	a, _ := newTestAssembler(t, time.Hour)
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			report, err := a.Build(context.Background(), tt.version)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got := record(t, report, "2024-03-04"); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
			empty := `{"Meal":[null,null],"Schedule":null,"Timetable":{"1":{"1":[],"2":[]}}}`
			if got := record(t, report, "2024-03-09"); got != empty {
				t.Errorf("empty day = %s, want %s", got, empty)
			}
		})
	}
}

func TestVariantsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		want    Variants
	}{
		{"v2", Variants{Meal: models.MealTextOnly, Schedule: models.ScheduleDefault}},
		{"v3", Variants{Meal: models.MealDefault, Schedule: models.ScheduleDefault}},
		{"v4", Variants{Meal: models.MealDefault, Schedule: models.ScheduleStructured}},
		{"v9", Variants{Meal: models.MealDefault, Schedule: models.ScheduleDefault}},
		{"", Variants{Meal: models.MealDefault, Schedule: models.ScheduleDefault}},
	}
	for _, tt := range tests {
		if got := VariantsFor(tt.version); got != tt.want {
			t.Errorf("VariantsFor(%q) = %+v, want %+v", tt.version, got, tt.want)
		}
	}
}

func TestBuild_FailureIsAllOrNothing(t *testing.T) {
	t.Parallel()

	a, src := newTestAssembler(t, 0)
	upstream := errors.New("hisTimetable request failed with status 502")
	src.failTimetable(upstream)

	report, err := a.Build(context.Background(), "v4")
	if !errors.Is(err, upstream) {
		t.Fatalf("err = %v, want %v", err, upstream)
	}
	if report != nil {
		t.Error("report returned alongside error")
	}
	if !strings.Contains(err.Error(), "timetable") {
		t.Errorf("err = %q, want entity name", err)
	}
	if !a.LastSuccess().IsZero() {
		t.Error("LastSuccess set by a failed pass")
	}
}

func TestBuild_NoSnapshotRunsEveryTime(t *testing.T) {
	t.Parallel()

	a, src := newTestAssembler(t, 0)
	for i := 0; i < 3; i++ {
		if _, err := a.Build(context.Background(), "v3"); err != nil {
			t.Fatalf("Build: %v", err)
		}
	}
	if src.mealCalls.Load() != 3 || src.scheduleCalls.Load() != 3 || src.timetableCalls.Load() != 3 {
		t.Errorf("calls = %d/%d/%d, want 3 each",
			src.mealCalls.Load(), src.scheduleCalls.Load(), src.timetableCalls.Load())
	}
	if a.LastSuccess().IsZero() {
		t.Error("LastSuccess not recorded")
	}
}

func TestBuild_SnapshotReuse(t *testing.T) {
	t.Parallel()

	a, src := newTestAssembler(t, time.Hour)
	for _, v := range []string{"v2", "v3", "v4"} {
		if _, err := a.Build(context.Background(), v); err != nil {
			t.Fatalf("Build(%s): %v", v, err)
		}
	}
	if src.mealCalls.Load() != 1 {
		t.Errorf("meal calls = %d, want 1 within TTL", src.mealCalls.Load())
	}

	a.Invalidate()
	if _, err := a.Build(context.Background(), "v3"); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if src.mealCalls.Load() != 2 {
		t.Errorf("meal calls = %d, want 2 after Invalidate", src.mealCalls.Load())
	}
}

func TestWarm(t *testing.T) {
	t.Parallel()

	a, src := newTestAssembler(t, time.Hour)
	if err := a.Warm(context.Background()); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if _, err := a.Build(context.Background(), "v4"); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if src.timetableCalls.Load() != 1 {
		t.Errorf("timetable calls = %d, want 1 (Build served from warm snapshot)", src.timetableCalls.Load())
	}

	// A failed refresh keeps the previous snapshot.
	src.failTimetable(errors.New("down"))
	if err := a.Warm(context.Background()); err == nil {
		t.Fatal("Warm succeeded against failing source")
	}
	if _, err := a.Build(context.Background(), "v4"); err != nil {
		t.Errorf("Build after failed Warm: %v", err)
	}
}

func TestBuild_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	a, src := newTestAssembler(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := a.Build(context.Background(), "v4")
			if err != nil {
				t.Errorf("Build: %v", err)
				return
			}
			if len(report.Days) != window.Size {
				t.Errorf("len(Days) = %d", len(report.Days))
			}
		}()
	}
	wg.Wait()

	if got := src.mealCalls.Load(); got != 8 {
		t.Errorf("meal calls = %d, want 8", got)
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	t.Parallel()

	a, src := newTestAssembler(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src.failTimetable(context.Canceled)

	if _, err := a.Build(ctx, "v3"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewRolling_RepinsAcrossMidnight(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation(window.DefaultTimezone)
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	var mu sync.Mutex
	now := time.Date(2024, 3, 5, 23, 50, 0, 0, loc)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	src := &fakeSource{}
	a := NewRolling(src, loc, clock, Options{Grades: 1, Classes: 2, SnapshotTTL: time.Hour})

	report, err := a.Build(context.Background(), "v3")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Days[window.Radius].Date != "2024-03-05" {
		t.Errorf("today = %s, want 2024-03-05", report.Days[window.Radius].Date)
	}

	mu.Lock()
	now = now.Add(20 * time.Minute)
	mu.Unlock()

	report, err = a.Build(context.Background(), "v3")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Days[window.Radius].Date != "2024-03-06" {
		t.Errorf("today after midnight = %s, want 2024-03-06", report.Days[window.Radius].Date)
	}
	if got := src.mealCalls.Load(); got != 2 {
		t.Errorf("meal calls = %d, want 2 (snapshot from the previous day is stale)", got)
	}
	if got := a.Window().Now(); !got.Equal(now) {
		t.Errorf("Window().Now() = %v, want %v", got, now)
	}
}
