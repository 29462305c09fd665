// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/models"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// DefaultMaxPages caps timetable pagination when no limit is configured.
const DefaultMaxPages = 50

// TimetableFetcher is the paginated NEIS call the timetable parser needs.
type TimetableFetcher interface {
	FetchTimetablePage(ctx context.Context, from, to string, page int) ([]neismodel.TimetableRow, error)
	PageSize() int
}

// TimetableParser builds TimetableViews from hisTimetable.
type TimetableParser struct {
	source   TimetableFetcher
	window   *window.DateWindow
	grades   int
	classes  int
	maxPages int
}

// NewTimetableParser creates a timetable parser for a school with the given
// number of grades and classes per grade. maxPages <= 0 uses DefaultMaxPages.
func NewTimetableParser(source TimetableFetcher, w *window.DateWindow, grades, classes, maxPages int) *TimetableParser {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &TimetableParser{
		source:   source,
		window:   w,
		grades:   grades,
		classes:  classes,
		maxPages: maxPages,
	}
}

// Parse fetches every page and builds the grids.
//
// Pagination stops after a short page (fewer than PageSize rows, including an
// empty or malformed one) or at the page cap. An error on any page fails the
// whole parse; rows from earlier pages are discarded.
func (p *TimetableParser) Parse(ctx context.Context) (*TimetableView, error) {
	rows, err := p.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildTimetableView(p.window, rows, p.grades, p.classes), nil
}

func (p *TimetableParser) fetchAll(ctx context.Context) ([]neismodel.TimetableRow, error) {
	from, to := p.window.Bounds()
	pageSize := p.source.PageSize()

	var all []neismodel.TimetableRow
	for page := 1; ; page++ {
		rows, err := p.source.FetchTimetablePage(ctx, from, to, page)
		if err != nil {
			return nil, fmt.Errorf("timetable page %d: %w", page, err)
		}
		all = append(all, rows...)

		if len(rows) < pageSize {
			return all, nil
		}
		if page >= p.maxPages {
			logging.Ctx(ctx).Warn().
				Int("pages", page).
				Int("rows", len(all)).
				Msg("Timetable pagination hit the page cap, keeping rows fetched so far")
			return all, nil
		}
	}
}

// buildTimetableView groups rows date → grade → class. Every date with at
// least one row gets a full grade × class grid before rows are applied.
func buildTimetableView(w *window.DateWindow, rows []neismodel.TimetableRow, grades, classes int) *TimetableView {
	grids := make(map[string]*models.TimetableGrid)
	for i := range rows {
		row := &rows[i]
		date, ok := parseRowDate(w, neismodel.ServiceTimetable, row.Date)
		if !ok {
			continue
		}
		key := window.Key(date)
		grid, ok := grids[key]
		if !ok {
			grid = models.NewTimetableGrid(grades, classes)
			grids[key] = grid
		}

		activity := string(row.Activity)
		if strings.TrimSpace(activity) == SaturdayClosure {
			continue
		}

		grade, gradeErr := row.Grade.Int()
		class, classErr := row.Class.Int()
		if gradeErr != nil || classErr != nil || !grid.InRange(grade, class) {
			skipRow(neismodel.ServiceTimetable, skipOutOfRange,
				fmt.Sprintf("grade %q class %q outside %dx%d grid", row.Grade, row.Class, grades, classes))
			continue
		}
		grid.Append(grade, class, activity)
	}
	return &TimetableView{grids: grids, grades: grades, classes: classes}
}

// TimetableView is the parsed timetable data of one pass.
type TimetableView struct {
	grids   map[string]*models.TimetableGrid
	grades  int
	classes int
}

// Entry returns the grid for date, or an empty grid when NEIS had no rows for it.
func (v *TimetableView) Entry(date time.Time) *models.TimetableGrid {
	if grid, ok := v.grids[window.Key(date)]; ok {
		return grid
	}
	return v.EmptyGrid()
}

// EmptyGrid returns a grid of the configured shape with every cell empty.
func (v *TimetableView) EmptyGrid() *models.TimetableGrid {
	return models.NewTimetableGrid(v.grades, v.classes)
}

// Dates returns the number of dates that had at least one row.
func (v *TimetableView) Dates() int { return len(v.grids) }
