// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/hdmeal-api/internal/api"
	"github.com/tomtom215/hdmeal-api/internal/app"
	"github.com/tomtom215/hdmeal-api/internal/config"
	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/supervisor"
	"github.com/tomtom215/hdmeal-api/internal/supervisor/services"
)

func main() {
	if err := app.LoadDotEnv(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load .env")
	}

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	app.InitLogging(cfg)

	logging.Info().
		Str("version", app.Version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting HDMeal API with supervisor tree")

	// Long-lived process: "today" follows the clock.
	a, err := app.New(cfg, app.WindowRolling)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize components")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Cache.WarmInterval > 0 && cfg.Cache.SnapshotTTL > 0 {
		tree.AddUpstreamService(services.NewWarmerService(a.Assembler, cfg.Cache.WarmInterval, cfg.Server.RequestTimeout))
		logging.Info().
			Dur("interval", cfg.Cache.WarmInterval).
			Dur("snapshot_ttl", cfg.Cache.SnapshotTTL).
			Msg("Snapshot warmer added to supervisor tree")
	} else if cfg.Cache.WarmInterval > 0 {
		logging.Warn().Msg("cache.warm_interval is set but cache.snapshot_ttl is 0, warmer disabled")
	}

	router := api.NewRouter(a.Handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		cancel()
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
