// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package assembler

import "github.com/tomtom215/hdmeal-api/internal/models"

// Variants is the per-entity shape selected by an API version.
// Timetable has a single shape and is not listed.
type Variants struct {
	Meal     models.MealVariant
	Schedule models.ScheduleVariant
}

// VariantsFor maps an API version to entity variants. Each entity falls back
// to its default shape for versions it has no variant for, so "v3" renders
// every entity in its default shape.
func VariantsFor(version string) Variants {
	v := Variants{Meal: models.MealDefault, Schedule: models.ScheduleDefault}
	switch version {
	case "v2":
		v.Meal = models.MealTextOnly
	case "v4":
		v.Schedule = models.ScheduleStructured
	}
	return v
}
