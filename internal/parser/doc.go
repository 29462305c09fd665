// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package parser turns raw NEIS rows into per-date views over a DateWindow.

Each parser runs one fetch (Timetable: one per page) and returns an immutable
view. Views are built fresh on every Parse call and never mutated afterwards,
so an assembly pass can read them from any goroutine.

	MealParser       mealServiceDietInfo → MealView       (menu lines, allergy codes, calories)
	ScheduleParser   SchoolSchedule      → ScheduleView   (events with grade lists)
	TimetableParser  hisTimetable        → TimetableView  (grade × class grid per date)

Shape problems in individual rows are tolerated: the row is skipped, logged at
debug level and counted in neis_rows_skipped_total. Fetch errors are returned
unchanged and fail the pass.

The literal "토요휴업일" (Saturday closure) never appears in any view.
*/
package parser
