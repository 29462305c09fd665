// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package parser

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/hdmeal-api/internal/models"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// ScheduleFetcher is the NEIS call the schedule parser needs.
type ScheduleFetcher interface {
	FetchSchedules(ctx context.Context, from, to string) ([]neismodel.ScheduleRow, error)
}

// ScheduleParser builds ScheduleViews from SchoolSchedule.
type ScheduleParser struct {
	source ScheduleFetcher
	window *window.DateWindow
}

// NewScheduleParser creates a schedule parser over the window.
func NewScheduleParser(source ScheduleFetcher, w *window.DateWindow) *ScheduleParser {
	return &ScheduleParser{source: source, window: w}
}

// Parse fetches and parses one pass of schedule data.
func (p *ScheduleParser) Parse(ctx context.Context) (*ScheduleView, error) {
	from, to := p.window.Bounds()
	rows, err := p.source.FetchSchedules(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return buildScheduleView(p.window, rows), nil
}

// buildScheduleView groups events by date with an explicit map, so rows need
// not arrive sorted. Event order within a date follows the input.
func buildScheduleView(w *window.DateWindow, rows []neismodel.ScheduleRow) *ScheduleView {
	days := make(map[string][]models.ScheduleEvent)
	for i := range rows {
		row := &rows[i]
		date, ok := parseRowDate(w, neismodel.ServiceSchedule, row.Date)
		if !ok {
			continue
		}
		name := strings.TrimSpace(string(row.EventName))
		if name == "" {
			skipRow(neismodel.ServiceSchedule, skipMissingField, "EVENT_NM missing")
			continue
		}
		if name == SaturdayClosure {
			continue
		}
		key := window.Key(date)
		days[key] = append(days[key], models.ScheduleEvent{
			Name:   name,
			Grades: gradesFromFlags(row.GradeFlags()),
		})
	}
	return &ScheduleView{days: days}
}

// gradesFromFlags lists the grades whose flag is "Y", ascending.
func gradesFromFlags(flags [6]neismodel.Text) []int {
	var grades []int
	for i, flag := range flags {
		if strings.TrimSpace(string(flag)) == "Y" {
			grades = append(grades, i+1)
		}
	}
	return grades
}

// ScheduleView is the parsed schedule data of one pass.
type ScheduleView struct {
	days map[string][]models.ScheduleEvent
}

// Entry returns the schedule entry for date in the given variant. A date with
// no events, including one whose only events were filtered, renders as null.
func (v *ScheduleView) Entry(date time.Time, variant models.ScheduleVariant) models.ScheduleEntry {
	var events []models.ScheduleEvent
	if v != nil {
		events = v.days[window.Key(date)]
	}
	return models.ScheduleEntry{Events: events, Variant: variant}
}
