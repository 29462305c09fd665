// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package main runs HDMeal API as an AWS Lambda function behind an API
// Gateway proxy integration.
//
// The date window is pinned at cold start, so a warm container keeps serving
// the day it started on. Cache-Control is computed from the same instant.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tomtom215/hdmeal-api/internal/app"
	"github.com/tomtom215/hdmeal-api/internal/config"
	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

func main() {
	if err := app.LoadDotEnv(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.InitLogging(cfg)

	a, err := app.New(cfg, app.WindowPinned)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize components")
	}

	logging.Info().
		Str("version", app.Version).
		Str("today", window.Key(a.Assembler.Window().Today())).
		Msg("Lambda cold start")

	lambda.Start(a.Handler.HandleAPIGateway)
}
