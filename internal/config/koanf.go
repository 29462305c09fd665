// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hdmeal/config.yaml",
	"/etc/hdmeal/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultNEISBaseURL is the public NEIS open-data hub.
const DefaultNEISBaseURL = "https://open.neis.go.kr/hub"

// defaultConfig returns a Config with default values for every optional setting.
// School identity and the NEIS key are left empty on purpose: they must be supplied.
func defaultConfig() *Config {
	return &Config{
		NEIS: NEISConfig{
			BaseURL:        DefaultNEISBaseURL,
			MealCode:       "2",
			PageSize:       1000,
			MaxPages:       50,
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			RetryBaseDelay: time.Second,
			RateLimit:      10,
			RateBurst:      5,
			CircuitBreaker: true,
		},
		Window: WindowConfig{
			Timezone: "Asia/Seoul",
		},
		Cache: CacheConfig{
			MaxAge:       1800,
			SnapshotTTL:  0,
			WarmInterval: 0,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "production",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults
//  2. Config File: optional YAML config file (if it exists)
//  3. Environment Variables: override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// NEIS_OPENAPI_TOKEN -> neis.api_key, NUM_OF_GRADES -> school.grades
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when set from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// The NEIS and school names are the ones the service has always been deployed with.
var envMappings = map[string]string{
	// NEIS client
	"neis_openapi_token":    "neis.api_key",
	"neis_base_url":         "neis.base_url",
	"neis_meal_code":        "neis.meal_code",
	"neis_page_size":        "neis.page_size",
	"neis_max_pages":        "neis.max_pages",
	"neis_timeout":          "neis.timeout",
	"neis_max_retries":      "neis.max_retries",
	"neis_retry_base_delay": "neis.retry_base_delay",
	"neis_rate_limit":       "neis.rate_limit",
	"neis_rate_burst":       "neis.rate_burst",
	"neis_circuit_breaker":  "neis.circuit_breaker",

	// School identity
	"atpt_ofcdc_sc_code": "school.region_code",
	"sd_schul_code":      "school.school_code",
	"num_of_grades":      "school.grades",
	"num_of_classes":     "school.classes",

	// Window
	"hdmeal_timezone": "window.timezone",

	// Cache
	"cache_max_age":       "cache.max_age",
	"cache_snapshot_ttl":  "cache.snapshot_ttl",
	"cache_warm_interval": "cache.warm_interval",

	// Server
	"http_host":               "server.host",
	"http_port":               "server.port",
	"http_read_timeout":       "server.read_timeout",
	"http_write_timeout":      "server.write_timeout",
	"http_request_timeout":    "server.request_timeout",
	"http_shutdown_timeout":   "server.shutdown_timeout",
	"environment":             "server.environment",
	"cors_origins":            "security.cors_origins",
	"rate_limit_requests":     "security.rate_limit_reqs",
	"rate_limit_window":       "security.rate_limit_window",
	"disable_rate_limit":      "security.rate_limit_disabled",
	"supervisor_backoff":      "supervisor.failure_backoff",
	"supervisor_threshold":    "supervisor.failure_threshold",
	"supervisor_shutdown_ttl": "supervisor.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return an empty string and are skipped.
//
// Examples:
//   - NEIS_OPENAPI_TOKEN -> neis.api_key
//   - ATPT_OFCDC_SC_CODE -> school.region_code
//   - NUM_OF_CLASSES -> school.classes
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
