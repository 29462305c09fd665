// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package services

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/hdmeal-api/internal/logging"
)

// Warmer refreshes the report snapshot. *assembler.Assembler implements it.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmerService runs an assembly pass at startup and then on every interval,
// so requests are served from a snapshot instead of waiting on NEIS.
//
// A failed pass is logged and retried on the next tick; the previous
// snapshot stays in place until its TTL runs out.
type WarmerService struct {
	warmer   Warmer
	interval time.Duration
	timeout  time.Duration
	name     string
}

// NewWarmerService creates a warmer. timeout bounds each pass; 0 uses the interval.
func NewWarmerService(warmer Warmer, interval, timeout time.Duration) *WarmerService {
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &WarmerService{
		warmer:   warmer,
		interval: interval,
		timeout:  timeout,
		name:     "snapshot-warmer",
	}
}

// Serve implements suture.Service. A non-positive interval disables the
// warmer permanently.
func (s *WarmerService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)
	if s.interval <= 0 {
		logger.Info().Msg("Snapshot warmer disabled")
		return suture.ErrDoNotRestart
	}

	s.warm(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", s.interval).Msg("Snapshot warmer started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Snapshot warmer stopped")
			return ctx.Err()
		case <-ticker.C:
			s.warm(ctx)
		}
	}
}

func (s *WarmerService) warm(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.warmer.Warm(passCtx); err != nil && ctx.Err() == nil {
		logger := logging.WithComponent(s.name)
		logger.Warn().Err(err).Msg("Snapshot refresh failed")
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *WarmerService) String() string {
	return s.name
}
