// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package models defines the report structures HDMeal API serves.

The report is keyed by date and every entity has a compact array-based JSON
shape that existing clients depend on, so each type implements MarshalJSON
rather than relying on struct tags:

	MealEntry      [menu, calories]            menu: [[text, [codes]], ...] or [text, ...] (v2)
	ScheduleEntry  null | ["name(1학년)", ...] | [[name, [grades]], ...] (v4)
	TimetableGrid  {"1": {"1": ["국어", ...], ...}, ...}
	Report         {"YYYY-MM-DD": {"Meal": ..., "Schedule": ..., "Timetable": ...}, ...}

Variants are chosen per entity by the assembler; the types here only render them.
All encoding goes through Marshal/Encode, which disable HTML escaping.

Raw NEIS upstream rows live in the neis subpackage.
*/
package models
