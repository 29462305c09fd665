// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package neis defines the raw response structures of the NEIS open-data hub
// (https://open.neis.go.kr/hub) for the meal, school schedule and high school
// timetable services.
//
// Field names follow the upstream column names through json tags. All columns
// are decoded as Text so that a missing, null or numeric value never fails
// the whole envelope; callers decide which empty fields make a row unusable.
package neis
