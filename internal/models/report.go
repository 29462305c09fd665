// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package models

import (
	"bytes"
	"strconv"
)

// DayRecord is the merged value for one date.
type DayRecord struct {
	Meal      MealEntry      `json:"Meal"`
	Schedule  ScheduleEntry  `json:"Schedule"`
	Timetable *TimetableGrid `json:"Timetable"`
}

// ReportDay pairs a YYYY-MM-DD key with its record.
type ReportDay struct {
	Date   string
	Record DayRecord
}

// Report is the response body: one record per window date, in window order.
//
// JSON: {"2024-02-24": {"Meal": ..., "Schedule": ..., "Timetable": ...}, ...}
type Report struct {
	Days []ReportDay
}

// MarshalJSON renders the days as one object whose keys keep window order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range r.Days {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(r.Days[i].Date))
		buf.WriteByte(':')
		b, err := Marshal(r.Days[i].Record)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the record for a YYYY-MM-DD key.
func (r *Report) Get(date string) (DayRecord, bool) {
	for i := range r.Days {
		if r.Days[i].Date == date {
			return r.Days[i].Record, true
		}
	}
	return DayRecord{}, false
}

// ErrorBody is the JSON body of a non-200 response.
//
// JSON: {"status": 404, "message": "Not Found"}
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
