// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package cli implements the hdmeal command line tool.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/hdmeal-api/internal/config"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

var (
	configPath string
	timezone   string
	nowFlag    string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "hdmeal",
	Short: "School meal, schedule and timetable aggregator",
	Long: "hdmeal fetches one school's meals, academic schedule and timetable from the NEIS Open API\n" +
		"for the 21 days around today and prints the same JSON the HTTP API serves.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $"+config.ConfigPathEnvVar+" or ./config.yaml)")
	RootCmd.PersistentFlags().StringVar(&timezone, "timezone", window.DefaultTimezone, "IANA time zone that defines today")
	RootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "Pin the clock to an RFC 3339 instant instead of the current time")
}

// pinnedWindow builds the date window from --timezone and --now.
func pinnedWindow() (*window.DateWindow, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if nowFlag != "" {
		if now, err = time.Parse(time.RFC3339, nowFlag); err != nil {
			return nil, err
		}
	}
	return window.New(now, loc), nil
}

func applyConfigFlag() error {
	if configPath == "" {
		return nil
	}
	return os.Setenv(config.ConfigPathEnvVar, configPath)
}
