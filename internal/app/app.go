// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package app wires configuration into the components every entry point
// shares: the NEIS source, the assembler and the API handler.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/hdmeal-api/internal/api"
	"github.com/tomtom215/hdmeal-api/internal/assembler"
	"github.com/tomtom215/hdmeal-api/internal/config"
	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/metrics"
	"github.com/tomtom215/hdmeal-api/internal/neis"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

// Version is set at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// WindowMode selects how the date window is pinned.
type WindowMode int

const (
	// WindowRolling re-pins "today" on every assembly pass. For long-lived servers.
	WindowRolling WindowMode = iota

	// WindowPinned pins "today" once, when the App is built. For the CLI and
	// Lambda, where a process serves one day at most.
	WindowPinned
)

// App holds the wired components.
type App struct {
	Config    *config.Config
	Location  *time.Location
	Source    neis.Source
	Breaker   *neis.CircuitBreakerClient // nil when neis.circuit_breaker is off
	Assembler *assembler.Assembler
	Handler   *api.Handler
}

// LoadDotEnv loads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// InitLogging configures the global logger from cfg.
func InitLogging(cfg *config.Config) {
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(Version, runtime.Version()).Set(1)
}

// New builds the NEIS source, the assembler and the handler.
func New(cfg *config.Config, mode WindowMode) (*App, error) {
	loc, err := time.LoadLocation(cfg.Window.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.Window.Timezone, err)
	}

	a := &App{Config: cfg, Location: loc}

	client := neis.NewClient(&cfg.NEIS, &cfg.School)
	a.Source = client
	if cfg.NEIS.CircuitBreaker {
		a.Breaker = neis.NewCircuitBreakerClient(client)
		a.Source = a.Breaker
	}

	opts := assembler.Options{
		Grades:      cfg.School.Grades,
		Classes:     cfg.School.Classes,
		MaxPages:    cfg.NEIS.MaxPages,
		SnapshotTTL: cfg.Cache.SnapshotTTL,
	}
	switch mode {
	case WindowPinned:
		a.Assembler = assembler.New(a.Source, window.New(time.Now(), loc), opts)
	default:
		a.Assembler = assembler.NewRolling(a.Source, loc, nil, opts)
	}

	a.Handler = api.NewHandler(a.Assembler, api.HandlerConfig{
		MaxAge:         cfg.Cache.MaxAge,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	if a.Breaker != nil {
		a.Handler.WithBreaker(a.Breaker)
	}

	logging.Info().
		Str("region_code", cfg.School.RegionCode).
		Str("school_code", cfg.School.SchoolCode).
		Int("grades", cfg.School.Grades).
		Int("classes", cfg.School.Classes).
		Str("timezone", loc.String()).
		Bool("circuit_breaker", a.Breaker != nil).
		Dur("snapshot_ttl", cfg.Cache.SnapshotTTL).
		Msg("Components initialized")

	return a, nil
}
