// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package neis

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/metrics"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
)

// decodeEnvelope extracts the rows of one service response.
//
// A body that is not a JSON object is a transport error. Every shape problem
// yields zero rows and a nil error: a missing service key, INFO-200, sections
// that do not decode, and ERROR-xxx results (bad key, exhausted quota). The
// last are logged at warn and counted so a rejected key stays visible.
func decodeEnvelope[T any](service string, body []byte) ([]T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", service, err)
	}

	if raw, ok := envelope["RESULT"]; ok {
		var result neismodel.Result
		if err := json.Unmarshal(raw, &result); err == nil && result.IsError() {
			rejected(service, &result)
			return nil, nil
		}
		logging.Debug().Str("service", service).Str("code", result.Code).Msg("NEIS returned no data")
		return nil, nil
	}

	raw, ok := envelope[service]
	if !ok {
		logging.Debug().Str("service", service).Msg("NEIS response has no service section")
		return nil, nil
	}

	var sections []neismodel.Section[T]
	if err := json.Unmarshal(raw, &sections); err != nil {
		logging.Warn().Err(err).Str("service", service).Msg("NEIS response sections malformed, treating as empty")
		return nil, nil
	}

	var rows []T
	for i := range sections {
		for _, head := range sections[i].Head {
			if head.Result.IsError() {
				rejected(service, head.Result)
				return nil, nil
			}
		}
		rows = append(rows, sections[i].Row...)
	}
	return rows, nil
}

// rejected records an ERROR-xxx result that is being treated as no data.
func rejected(service string, result *neismodel.Result) {
	metrics.RecordNEISResultError(service, result.Code)
	logging.Warn().
		Str("service", service).
		Str("code", result.Code).
		Str("message", result.Message).
		Msg("NEIS rejected request, treating as empty")
}
