// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package assembler runs assembly passes and merges their results into reports.

A pass runs the meal, schedule and timetable parsers concurrently through an
errgroup and joins on all three. Any failure cancels the others and fails the
pass; a partial report is never produced.

	report, err := asm.Build(ctx, "v4")

Each report date holds:

	Meal       MealView.Entry(date, variant)       [null, null] when absent
	Schedule   ScheduleView.Entry(date, variant)   null when absent
	Timetable  TimetableView.Entry(date)           empty grid when absent

Versions pick a variant per entity (VariantsFor): v2 selects text-only meals,
v4 structured schedules, everything else the default shapes.

When Options.SnapshotTTL is positive the views of the last successful pass are
reused for that long. Warm refreshes the snapshot ahead of requests.
*/
package assembler
