// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package config

import (
	"fmt"

	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateNEIS(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateNEIS() error {
	if err := validateBaseURL(c.NEIS.BaseURL, "NEIS_BASE_URL"); err != nil {
		return err
	}
	if c.NEIS.Timeout <= 0 {
		return fmt.Errorf("NEIS_TIMEOUT must be positive, got %s", c.NEIS.Timeout)
	}
	if c.NEIS.MaxRetries > 0 && c.NEIS.RetryBaseDelay <= 0 {
		return fmt.Errorf("NEIS_RETRY_BASE_DELAY must be positive when NEIS_MAX_RETRIES is set")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.SnapshotTTL < 0 {
		return fmt.Errorf("CACHE_SNAPSHOT_TTL must not be negative, got %s", c.Cache.SnapshotTTL)
	}
	if c.Cache.WarmInterval < 0 {
		return fmt.Errorf("CACHE_WARM_INTERVAL must not be negative, got %s", c.Cache.WarmInterval)
	}
	if c.Cache.WarmInterval > 0 && c.Cache.SnapshotTTL == 0 {
		return fmt.Errorf("CACHE_SNAPSHOT_TTL is required when CACHE_WARM_INTERVAL is set")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must be positive, got %s", c.Server.RequestTimeout)
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < c.Server.RequestTimeout {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT (%s) must not be shorter than HTTP_REQUEST_TIMEOUT (%s)",
			c.Server.WriteTimeout, c.Server.RequestTimeout)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled; got %q",
			c.Logging.Level)
	}
	return nil
}
