// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package models

// MealItem is one cleaned menu line and the allergy codes (1-18) found on it.
//
// JSON: ["돈육김치찌개", [1, 5, 6, 9]]
type MealItem struct {
	Text      string
	Allergies []int
}

// MarshalJSON renders the item as a two-element array.
func (m MealItem) MarshalJSON() ([]byte, error) {
	allergies := m.Allergies
	if allergies == nil {
		allergies = []int{}
	}
	return Marshal([]interface{}{m.Text, allergies})
}

// MealDay is the parsed meal for one date.
// Calories is nil when CAL_INFO was missing or unparseable.
type MealDay struct {
	Items    []MealItem
	Calories *float64
}

// MealVariant selects how a MealEntry renders its menu.
type MealVariant int

const (
	// MealDefault renders each line as [text, [codes...]].
	MealDefault MealVariant = iota
	// MealTextOnly renders each line as a plain string (API v2).
	MealTextOnly
)

// MealEntry is the per-date meal value in a report.
//
// JSON: [menu, calories], where menu is null when no meal was served that day.
type MealEntry struct {
	Day     *MealDay
	Variant MealVariant
}

// MarshalJSON renders [menu, calories].
func (e MealEntry) MarshalJSON() ([]byte, error) {
	if e.Day == nil {
		return []byte("[null,null]"), nil
	}

	var menu interface{}
	switch e.Variant {
	case MealTextOnly:
		lines := make([]string, len(e.Day.Items))
		for i := range e.Day.Items {
			lines[i] = e.Day.Items[i].Text
		}
		menu = lines
	default:
		items := e.Day.Items
		if items == nil {
			items = []MealItem{}
		}
		menu = items
	}
	return Marshal([]interface{}{menu, e.Day.Calories})
}
