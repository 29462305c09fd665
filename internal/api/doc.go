// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package api provides the HTTP layer for HDMeal API.

Routes:

	GET /api?version=v2|v3|v4   report for the 21-day window
	GET /api/{version}          same, version in the path
	GET /health/live            liveness probe
	GET /health/ready           readiness: circuit breaker state, last successful pass
	GET /metrics                Prometheus exposition

Any other version and any unknown route answer 404 with

	{
	    "status": 404,
	    "message": "Not Found"
	}

An assembly failure answers 502 (504 when the request timeout expired) with
the same body shape. No partial report is ever sent.

Handler.Respond renders a complete Response without touching an
http.ResponseWriter. HandleAPIGateway wraps it for API Gateway proxy events,
so the Lambda entry point serves exactly what the HTTP server serves.

Middleware order (global, then per group):

	RequestID -> RealIP -> Recoverer -> GetHead -> CORS -> PrometheusMetrics
	/api only: RateLimit (httprate, per IP) -> Compression (gzip)

Usage Example:

	asm := assembler.NewRolling(source, loc, nil, assembler.Options{...})
	handler := api.NewHandler(asm, api.HandlerConfig{MaxAge: 1800, RequestTimeout: time.Minute}).
	    WithBreaker(breaker)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))
	http.ListenAndServe(":8080", router.SetupChi())
*/
package api
