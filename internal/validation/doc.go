// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with the custom tags this service
// needs (api_version, neis_date, timezone) and translates field errors into
// readable messages. Configuration validation and the inbound version check
// both go through ValidateStruct.
package validation
