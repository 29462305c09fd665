// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/hdmeal-api/internal/models"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// Allergy codes are the 18 allergens of the Korean food labelling standard.
const (
	minAllergyCode = 1
	maxAllergyCode = 18
)

var (
	// allergyRun matches the allergy marker at the end of a menu line:
	// "1.5.6.9." or "(5.6.9.10.13)", optionally followed by clutter.
	// Group 1 is the parenthesised form, group 2 the bare form.
	allergyRun = regexp.MustCompile(`(?:\(((?:\d+\.)*\d+\.?)\)|((?:\d+\.)+))[ #&*\-.=@_]*$`)

	// trailingClutter is stripped from the end of every line.
	trailingClutter = regexp.MustCompile(`[ #&*\-.=@_]+$`)
)

// MealFetcher is the NEIS call the meal parser needs.
type MealFetcher interface {
	FetchMeals(ctx context.Context, from, to string) ([]neismodel.MealRow, error)
}

// MealParser builds MealViews from mealServiceDietInfo.
type MealParser struct {
	source MealFetcher
	window *window.DateWindow
}

// NewMealParser creates a meal parser over the window.
func NewMealParser(source MealFetcher, w *window.DateWindow) *MealParser {
	return &MealParser{source: source, window: w}
}

// Parse fetches and parses one pass of meal data.
func (p *MealParser) Parse(ctx context.Context) (*MealView, error) {
	from, to := p.window.Bounds()
	rows, err := p.source.FetchMeals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return buildMealView(p.window, rows), nil
}

func buildMealView(w *window.DateWindow, rows []neismodel.MealRow) *MealView {
	days := make(map[string]*models.MealDay, len(rows))
	for i := range rows {
		row := &rows[i]
		date, ok := parseRowDate(w, neismodel.ServiceMeal, row.Date)
		if !ok {
			continue
		}
		if row.Dishes == "" {
			skipRow(neismodel.ServiceMeal, skipMissingField, "DDISH_NM missing")
			continue
		}
		// Later rows for the same date replace earlier ones.
		days[window.Key(date)] = &models.MealDay{
			Items:    ParseMenu(string(row.Dishes)),
			Calories: ParseCalories(string(row.Calories)),
		}
	}
	return &MealView{days: days}
}

// MealView is the parsed meal data of one pass.
type MealView struct {
	days map[string]*models.MealDay
}

// Entry returns the meal entry for date in the given variant. Dates without
// data render as [null, null].
func (v *MealView) Entry(date time.Time, variant models.MealVariant) models.MealEntry {
	var day *models.MealDay
	if v != nil {
		day = v.days[window.Key(date)]
	}
	return models.MealEntry{Day: day, Variant: variant}
}

// ParseMenu splits a DDISH_NM value into cleaned menu items. Line breaks are
// "<br/>" markers; each one also terminates the previous item with a period.
// Every line yields an item, so a trailing "<br/>" produces an empty last one.
func ParseMenu(dishes string) []models.MealItem {
	lines := strings.Split(strings.ReplaceAll(dishes, "<br/>", ".\n"), "\n")
	items := make([]models.MealItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, ParseMenuLine(line))
	}
	return items
}

// ParseMenuLine extracts the trailing allergy marker from one line and strips
// clutter from the end of the remaining text. Leading text is left untouched.
//
//	"돈육김치찌개1.5.6.9."        → "돈육김치찌개", [1 5 6 9]
//	"닭갈비(5.6.9.10.13)."       → "닭갈비", [5 6 9 10 13]
//	"2.5kg 감자"                 → "2.5kg 감자", []
//	"메뉴19."                    → "메뉴19", []
//
// The marker is removed only when every number in it is a valid allergy code;
// otherwise the text is kept as is and only the valid codes are reported.
func ParseMenuLine(line string) models.MealItem {
	text := line
	var codes []int

	if loc := allergyRun.FindStringSubmatchIndex(line); loc != nil {
		var run string
		switch {
		case loc[2] >= 0:
			run = line[loc[2]:loc[3]]
		case loc[4] >= 0:
			run = line[loc[4]:loc[5]]
		}

		allValid := true
		for _, token := range strings.Split(run, ".") {
			if token == "" {
				continue
			}
			n, err := strconv.Atoi(token)
			if err != nil || n < minAllergyCode || n > maxAllergyCode {
				allValid = false
				continue
			}
			codes = append(codes, n)
		}
		if allValid {
			text = line[:loc[0]]
		}
	}

	text = strings.ReplaceAll(text, "()", "")
	text = trailingClutter.ReplaceAllString(text, "")
	return models.MealItem{Text: text, Allergies: codes}
}

// ParseCalories parses a CAL_INFO value such as "650.5 Kcal". Unparseable
// values yield nil.
func ParseCalories(s string) *float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "Kcal"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
