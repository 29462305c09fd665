// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// The school identity (NEIS token, region code, school code, grade and class counts)
// has no defaults. Load fails when any of it is missing or malformed, so a process
// with a bad configuration never serves traffic.
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	NEIS       NEISConfig       `koanf:"neis"`
	School     SchoolConfig     `koanf:"school"`
	Window     WindowConfig     `koanf:"window"`
	Cache      CacheConfig      `koanf:"cache"`
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// NEISConfig holds settings for the NEIS open-data API client.
type NEISConfig struct {
	// BaseURL is the hub endpoint; service names are appended as path segments.
	BaseURL string `koanf:"base_url" validate:"required"`

	// APIKey is the NEIS open API authentication token (KEY parameter).
	APIKey string `koanf:"api_key" validate:"required"`

	// MealCode is MMEAL_SC_CODE: 1 breakfast, 2 lunch, 3 dinner.
	MealCode string `koanf:"meal_code" validate:"oneof=1 2 3"`

	// PageSize is pSize for paginated services. NEIS caps it at 1000.
	PageSize int `koanf:"page_size" validate:"min=1,max=1000"`

	// MaxPages bounds timetable pagination.
	MaxPages int `koanf:"max_pages" validate:"min=1,max=1000"`

	Timeout        time.Duration `koanf:"timeout"`
	MaxRetries     int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RateLimit is the outbound request rate in requests per second. 0 disables pacing.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=1"`

	// CircuitBreaker wraps every NEIS call in a gobreaker circuit breaker.
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// SchoolConfig identifies the single school this deployment serves.
type SchoolConfig struct {
	// RegionCode is ATPT_OFCDC_SC_CODE, the provincial office of education code (e.g. "J10").
	RegionCode string `koanf:"region_code" validate:"required,alphanum,len=3"`

	// SchoolCode is SD_SCHUL_CODE, the standard school code (e.g. "7530079").
	SchoolCode string `koanf:"school_code" validate:"required,numeric,len=7"`

	// Grades is the number of grades. NEIS schedules carry flags for grades 1 to 6.
	Grades int `koanf:"grades" validate:"min=1,max=6"`

	// Classes is the number of classes per grade; use the largest grade's count
	// when grades differ.
	Classes int `koanf:"classes" validate:"min=1,max=30"`
}

// WindowConfig controls how "today" is pinned.
type WindowConfig struct {
	Timezone string `koanf:"timezone" validate:"timezone"`
}

// CacheConfig controls response caching.
type CacheConfig struct {
	// MaxAge is the shared cache max-age in seconds used by the Cache-Control policy.
	MaxAge int `koanf:"max_age" validate:"min=1"`

	// SnapshotTTL reuses the last successful assembly pass for this long.
	// 0 re-fetches every request.
	SnapshotTTL time.Duration `koanf:"snapshot_ttl"`

	// WarmInterval runs a background pass on this interval in server mode.
	// 0 disables the warmer.
	WarmInterval time.Duration `koanf:"warm_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment" validate:"oneof=development production"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds inbound CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// SupervisorConfig holds suture supervisor tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load loads configuration from defaults, an optional config file, and environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
