// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package main is the hdmeal command line tool.
package main

import (
	"os"

	"github.com/tomtom215/hdmeal-api/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
