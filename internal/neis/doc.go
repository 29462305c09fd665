// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package neis is the HTTP client for the NEIS open-data hub (open.neis.go.kr).

It performs the three calls an assembly pass needs for one school:

	mealServiceDietInfo  FetchMeals          MMEAL_SC_CODE, MLSV_FROM_YMD, MLSV_TO_YMD
	SchoolSchedule       FetchSchedules      AA_FROM_YMD, AA_TO_YMD
	hisTimetable         FetchTimetablePage  TI_FROM_YMD, TI_TO_YMD, pIndex

Every request carries KEY, Type=json, ATPT_OFCDC_SC_CODE, SD_SCHUL_CODE and pSize.

# Envelope

The hub wraps rows as {"<service>": [{"head": [...]}, {"row": [...]}]}. When a
query matches nothing it answers {"RESULT": {"CODE": "INFO-200", ...}} instead.
The no-data form, shape problems and ERROR-xxx codes (bad key, exhausted
quota) all decode to zero rows; ERROR-xxx codes are logged at warn and counted
in neis_result_errors_total. Non-200 statuses come back as *APIError and a body
that is not JSON is an error.

# Resilience

  - Pacing: one golang.org/x/time/rate limiter per client
  - Retries: HTTP 429 and 5xx, exponential backoff, Retry-After honoured
  - Circuit breaker: CircuitBreakerClient (sony/gobreaker) wraps any Source;
    rejected calls wrap ErrCircuitOpen

Request URLs contain the API key, so transport errors are unwrapped from
*url.Error before they are returned.
*/
package neis
