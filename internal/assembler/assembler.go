// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package assembler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/hdmeal-api/internal/cache"
	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/metrics"
	"github.com/tomtom215/hdmeal-api/internal/models"
	"github.com/tomtom215/hdmeal-api/internal/neis"
	"github.com/tomtom215/hdmeal-api/internal/parser"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

const (
	// maxConcurrentParsers bounds the parser fan-out. A pass needs three.
	maxConcurrentParsers = 5

	snapshotCacheName = "snapshot"
	snapshotKey       = "views"
)

// Options configures an Assembler.
type Options struct {
	Grades   int
	Classes  int
	MaxPages int

	// SnapshotTTL reuses the last successful pass for this long. 0 runs a
	// fresh pass for every Build.
	SnapshotTTL time.Duration
}

// Snapshot holds the parsed views of one successful pass.
type Snapshot struct {
	Window     *window.DateWindow
	Meals      *parser.MealView
	Schedules  *parser.ScheduleView
	Timetables *parser.TimetableView
	PassID     string
	BuiltAt    time.Time
}

// Assembler runs assembly passes and merges their views into reports.
//
// Passes are serialized: at most one runs at a time per Assembler, and a
// report is always rendered from a single pass's views.
type Assembler struct {
	source    neis.Source
	opts      Options
	pin       func() *window.DateWindow
	snapshots *cache.Cache[*Snapshot]

	mu          sync.Mutex
	lastSuccess atomic.Int64 // unix nanoseconds, 0 before the first pass
}

// New creates an Assembler that fetches through source for a fixed window.
// Use it for one-shot processes (CLI, a single Lambda invocation).
func New(source neis.Source, w *window.DateWindow, opts Options) *Assembler {
	return newAssembler(source, func() *window.DateWindow { return w }, opts)
}

// NewRolling creates an Assembler that re-pins the window in loc on every
// pass, for long-lived servers that outlive a day. now defaults to time.Now.
func NewRolling(source neis.Source, loc *time.Location, now func() time.Time, opts Options) *Assembler {
	if now == nil {
		now = time.Now
	}
	return newAssembler(source, func() *window.DateWindow { return window.New(now(), loc) }, opts)
}

func newAssembler(source neis.Source, pin func() *window.DateWindow, opts Options) *Assembler {
	return &Assembler{
		source:    source,
		opts:      opts,
		pin:       pin,
		snapshots: cache.New[*Snapshot](snapshotCacheName, opts.SnapshotTTL),
	}
}

// Window returns the window a report built now would cover. Its pinned
// instant is what the Cache-Control policy is computed from.
func (a *Assembler) Window() *window.DateWindow { return a.pin() }

// Build returns the report for an API version. The version must already be
// validated; unknown values render every entity in its default shape.
func (a *Assembler) Build(ctx context.Context, version string) (*models.Report, error) {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return a.render(snap, VariantsFor(version)), nil
}

// Warm runs a pass and stores it as the current snapshot, replacing any
// unexpired one.
func (a *Assembler) Warm(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := a.pass(ctx, a.pin())
	if err != nil {
		return err
	}
	a.snapshots.Set(snapshotKey, snap)
	return nil
}

// Invalidate drops the current snapshot.
func (a *Assembler) Invalidate() {
	a.snapshots.Delete(snapshotKey)
}

// LastSuccess returns when the last pass succeeded, or the zero time.
func (a *Assembler) LastSuccess() time.Time {
	ns := a.lastSuccess.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// snapshot returns the cached snapshot or runs a new pass.
func (a *Assembler) snapshot(ctx context.Context) (*Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w := a.pin()

	// A snapshot taken before local midnight covers the wrong dates.
	if snap, ok := a.snapshots.Get(snapshotKey); ok && snap.Window.Today().Equal(w.Today()) {
		metrics.RecordSnapshotServed()
		logging.Ctx(ctx).Debug().Str("snapshot_pass_id", snap.PassID).Msg("Serving from snapshot")
		return snap, nil
	}

	snap, err := a.pass(ctx, w)
	if err != nil {
		return nil, err
	}
	a.snapshots.Set(snapshotKey, snap)
	return snap, nil
}

// pass runs the three parsers concurrently and waits for all of them.
// If any fails the others are cancelled and no snapshot is produced.
func (a *Assembler) pass(ctx context.Context, w *window.DateWindow) (*Snapshot, error) {
	passID := logging.GeneratePassID()
	ctx = logging.ContextWithPassID(ctx, passID)
	logger := logging.Ctx(ctx)
	start := time.Now()

	mealParser := parser.NewMealParser(a.source, w)
	scheduleParser := parser.NewScheduleParser(a.source, w)
	timetableParser := parser.NewTimetableParser(a.source, w, a.opts.Grades, a.opts.Classes, a.opts.MaxPages)

	var (
		meals      *parser.MealView
		schedules  *parser.ScheduleView
		timetables *parser.TimetableView
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentParsers)

	g.Go(func() error {
		v, err := mealParser.Parse(gctx)
		if err != nil {
			return fmt.Errorf("meal: %w", err)
		}
		meals = v
		return nil
	})
	g.Go(func() error {
		v, err := scheduleParser.Parse(gctx)
		if err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
		schedules = v
		return nil
	})
	g.Go(func() error {
		v, err := timetableParser.Parse(gctx)
		if err != nil {
			return fmt.Errorf("timetable: %w", err)
		}
		timetables = v
		return nil
	})

	err := g.Wait()
	elapsed := time.Since(start)
	metrics.RecordAssembly(elapsed, err)

	if err != nil {
		logger.Error().Err(err).Dur("duration", elapsed).Msg("Assembly pass failed")
		return nil, fmt.Errorf("assembly pass %s: %w", passID, err)
	}

	now := time.Now()
	a.lastSuccess.Store(now.UnixNano())
	logger.Info().
		Str("today", window.Key(w.Today())).
		Dur("duration", elapsed).
		Int("timetable_dates", timetables.Dates()).
		Msg("Assembly pass complete")

	return &Snapshot{
		Window:     w,
		Meals:      meals,
		Schedules:  schedules,
		Timetables: timetables,
		PassID:     passID,
		BuiltAt:    now,
	}, nil
}

// render merges the views over every window date.
func (a *Assembler) render(snap *Snapshot, v Variants) *models.Report {
	days := snap.Window.Days()
	report := &models.Report{Days: make([]models.ReportDay, 0, len(days))}
	for _, d := range days {
		report.Days = append(report.Days, models.ReportDay{
			Date: window.Key(d),
			Record: models.DayRecord{
				Meal:      snap.Meals.Entry(d, v.Meal),
				Schedule:  snap.Schedules.Entry(d, v.Schedule),
				Timetable: snap.Timetables.Entry(d),
			},
		})
	}
	return report
}
