// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package neis

import (
	"net/url"
	"strconv"
	"strings"
)

// apiRequest holds parameters for one hub request
type apiRequest struct {
	service string
	params  url.Values
}

// newAPIRequest creates a request for the given service
func newAPIRequest(service string) *apiRequest {
	return &apiRequest{
		service: service,
		params:  url.Values{},
	}
}

// addParam adds a parameter to the request (skipped when empty)
func (r *apiRequest) addParam(key, value string) *apiRequest {
	if value != "" {
		r.params.Set(key, value)
	}
	return r
}

// addIntParam adds an integer parameter to the request (only if > 0)
func (r *apiRequest) addIntParam(key string, value int) *apiRequest {
	if value > 0 {
		r.params.Set(key, strconv.Itoa(value))
	}
	return r
}

// addRange adds the service-specific from/to date pair
func (r *apiRequest) addRange(fromKey, toKey, from, to string) *apiRequest {
	return r.addParam(fromKey, from).addParam(toKey, to)
}

// buildURL constructs the full URL: {baseURL}/{service}?KEY=...&Type=json&...
func (r *apiRequest) buildURL(baseURL, apiKey string) string {
	params := url.Values{}
	params.Set("KEY", apiKey)
	params.Set("Type", "json")
	for key, values := range r.params {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	return strings.TrimRight(baseURL, "/") + "/" + r.service + "?" + params.Encode()
}
