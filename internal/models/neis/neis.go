// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package neis

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// Service names as they appear in the hub URL path and as the envelope's top-level key.
const (
	ServiceMeal      = "mealServiceDietInfo"
	ServiceSchedule  = "SchoolSchedule"
	ServiceTimetable = "hisTimetable"
)

// Result codes returned in the RESULT object.
const (
	CodeOK     = "INFO-000"
	CodeNoData = "INFO-200"
)

// Result is the RESULT object NEIS attaches to the envelope head, or returns
// alone at the top level when there is no data or the request was rejected.
type Result struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

// IsError reports whether the code signals a rejected request (ERROR-xxx).
func (r *Result) IsError() bool {
	return r != nil && len(r.Code) >= 5 && r.Code[:5] == "ERROR"
}

// Head is one element of a section's head array.
type Head struct {
	ListTotalCount *int    `json:"list_total_count,omitempty"`
	Result         *Result `json:"RESULT,omitempty"`
}

// Section is one element of a service array: either {"head": [...]} or {"row": [...]}.
//
//	{"mealServiceDietInfo": [{"head": [...]}, {"row": [...]}]}
type Section[T any] struct {
	Head []Head `json:"head,omitempty"`
	Row  []T    `json:"row,omitempty"`
}

// Text is a string field that NEIS sometimes renders as a JSON number
// (GRADE and CLASS_NM vary between schools).
type Text string

// UnmarshalJSON accepts strings, numbers and null. Any other JSON value decodes as empty.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		// objects, arrays and booleans carry nothing a row can use
		*t = ""
		return nil
	}
	*t = Text(data)
	return nil
}

// Int parses the text as a decimal integer.
func (t Text) Int() (int, error) {
	return strconv.Atoi(string(t))
}

// MealRow is one mealServiceDietInfo row.
type MealRow struct {
	Date       Text `json:"MLSV_YMD"`
	Dishes     Text `json:"DDISH_NM"`
	Calories   Text `json:"CAL_INFO"`
	MealCode   Text `json:"MMEAL_SC_CODE"`
	MealName   Text `json:"MMEAL_SC_NM"`
	SchoolName Text `json:"SCHUL_NM"`
}

// ScheduleRow is one SchoolSchedule row. The six *_GRADE_EVENT_YN flags are "Y" or "N".
type ScheduleRow struct {
	Date       Text `json:"AA_YMD"`
	EventName  Text `json:"EVENT_NM"`
	Grade1     Text `json:"ONE_GRADE_EVENT_YN"`
	Grade2     Text `json:"TW_GRADE_EVENT_YN"`
	Grade3     Text `json:"THREE_GRADE_EVENT_YN"`
	Grade4     Text `json:"FR_GRADE_EVENT_YN"`
	Grade5     Text `json:"FIV_GRADE_EVENT_YN"`
	Grade6     Text `json:"SIX_GRADE_EVENT_YN"`
	DayOffName Text `json:"SBTR_DD_SC_NM"`
}

// GradeFlags returns the six grade flags in grade order.
func (r *ScheduleRow) GradeFlags() [6]Text {
	return [6]Text{r.Grade1, r.Grade2, r.Grade3, r.Grade4, r.Grade5, r.Grade6}
}

// TimetableRow is one hisTimetable row.
type TimetableRow struct {
	Date     Text `json:"ALL_TI_YMD"`
	Grade    Text `json:"GRADE"`
	Class    Text `json:"CLASS_NM"`
	Period   Text `json:"PERIO"`
	Activity Text `json:"ITRT_CNTNT"`
}
