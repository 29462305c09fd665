// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/metrics"
)

// HandleAPIGateway serves an API Gateway proxy event. The reply is byte-for-byte
// what the HTTP handler writes for the same version, minus compression.
func (h *Handler) HandleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()
	if id := req.RequestContext.RequestID; id != "" {
		ctx = logging.ContextWithRequestID(ctx, id)
	}

	method := strings.ToUpper(req.HTTPMethod)
	var resp *Response
	switch method {
	case "", http.MethodGet, http.MethodHead:
		resp = h.Respond(ctx, versionFromEvent(req))
	default:
		resp = errorResponse(http.StatusMethodNotAllowed)
		resp.Header.Set("Allow", "GET, HEAD, OPTIONS")
	}

	metrics.RecordAPIRequest(method, "lambda", strconv.Itoa(resp.Status), time.Since(start))

	out := events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Headers:    make(map[string]string, len(resp.Header)),
	}
	for k := range resp.Header {
		out.Headers[k] = resp.Header.Get(k)
	}
	if method != http.MethodHead {
		out.Body = string(resp.Body)
	}
	return out, nil
}

// versionFromEvent mirrors versionFromRequest: path parameter first, then the
// last "version" query value.
func versionFromEvent(req events.APIGatewayProxyRequest) string {
	if v := req.PathParameters["version"]; v != "" {
		return v
	}
	if values := req.MultiValueQueryStringParameters["version"]; len(values) > 0 {
		return values[len(values)-1]
	}
	return req.QueryStringParameters["version"]
}
