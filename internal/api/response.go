// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package api

import (
	"bytes"
	"net/http"

	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/models"
)

// ContentTypeJSON is sent with every body, success or error.
const ContentTypeJSON = "application/json; charset=utf-8"

// errorIndent matches the four-space indentation existing clients see on error bodies.
const errorIndent = "    "

// Response is a fully rendered reply. The HTTP handler and the Lambda adapter
// both produce one and only differ in how they put it on the wire.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Write sends the response.
func (resp *Response) Write(w http.ResponseWriter) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	if _, err := w.Write(resp.Body); err != nil {
		logging.Warn().Err(err).Int("status", resp.Status).Msg("Failed to write response")
	}
}

// jsonResponse builds a response around an encoded body.
func jsonResponse(status int, body []byte) *Response {
	header := make(http.Header)
	header.Set("Content-Type", ContentTypeJSON)
	return &Response{Status: status, Header: header, Body: body}
}

// errorResponse renders {"status": N, "message": "..."} with the standard
// reason phrase for N.
func errorResponse(status int) *Response {
	var buf bytes.Buffer
	body := models.ErrorBody{Status: status, Message: http.StatusText(status)}
	if err := models.EncodeIndent(&buf, body, errorIndent); err != nil {
		// ErrorBody has two scalar fields; encoding cannot fail.
		logging.Error().Err(err).Msg("Failed to encode error body")
	}
	return jsonResponse(status, bytes.TrimRight(buf.Bytes(), "\n"))
}

// NotFound is the reply for unknown versions and unknown routes.
func NotFound() *Response {
	return errorResponse(http.StatusNotFound)
}
