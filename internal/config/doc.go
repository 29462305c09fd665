// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

// Package config loads and validates HDMeal API configuration.
//
// Configuration is layered with Koanf v2: struct defaults, then an optional
// YAML file (CONFIG_PATH, config.yaml, /etc/hdmeal/config.yaml), then
// environment variables. Environment names are mapped explicitly; the
// deployment names NEIS_OPENAPI_TOKEN, ATPT_OFCDC_SC_CODE, SD_SCHUL_CODE,
// NUM_OF_GRADES and NUM_OF_CLASSES are honoured.
//
// Example config.yaml:
//
//	neis:
//	  api_key: "your-neis-key"
//	school:
//	  region_code: J10
//	  school_code: "7530079"
//	  grades: 3
//	  classes: 10
//	cache:
//	  snapshot_ttl: 5m
//	  warm_interval: 4m
//
// Load returns an error for any missing or malformed value; entry points treat
// that as fatal.
package config
