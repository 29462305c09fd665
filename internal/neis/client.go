// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package neis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/hdmeal-api/internal/config"
	"github.com/tomtom215/hdmeal-api/internal/logging"
	"github.com/tomtom215/hdmeal-api/internal/metrics"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
)

// maxResponseBodySize bounds a decoded page. 1000 timetable rows are well under 1MB.
const maxResponseBodySize = 16 << 20

// Source is the set of NEIS calls an assembly pass makes.
//
// Implemented by Client and by CircuitBreakerClient. Every method takes the
// window bounds as YYYYMMDD strings and returns rows in upstream order.
type Source interface {
	FetchMeals(ctx context.Context, from, to string) ([]neismodel.MealRow, error)
	FetchSchedules(ctx context.Context, from, to string) ([]neismodel.ScheduleRow, error)
	FetchTimetablePage(ctx context.Context, from, to string, page int) ([]neismodel.TimetableRow, error)
	PageSize() int
}

// Client handles communication with the NEIS open-data hub for one school.
//
// Features:
//   - Configurable request timeout
//   - Outbound pacing through a shared token bucket
//   - Retry with exponential backoff on HTTP 429 and 5xx, honouring Retry-After
//   - Typed errors for HTTP failures; ERROR-xxx result codes are logged and served as no data
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
type Client struct {
	baseURL        string
	apiKey         string
	regionCode     string
	schoolCode     string
	mealCode       string
	pageSize       int
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int           // Maximum retries for 429 and 5xx
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a NEIS client for the configured school.
func NewClient(cfg *config.NEISConfig, school *config.SchoolConfig) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		regionCode: school.RegionCode,
		schoolCode: school.SchoolCode,
		mealCode:   cfg.MealCode,
		pageSize:   cfg.PageSize,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// PageSize returns pSize, the number of rows the hub returns per full page.
func (c *Client) PageSize() int { return c.pageSize }

// FetchMeals retrieves mealServiceDietInfo rows for the configured meal code.
func (c *Client) FetchMeals(ctx context.Context, from, to string) ([]neismodel.MealRow, error) {
	req := c.schoolRequest(neismodel.ServiceMeal, 1).
		addParam("MMEAL_SC_CODE", c.mealCode).
		addRange("MLSV_FROM_YMD", "MLSV_TO_YMD", from, to)
	return fetchRows[neismodel.MealRow](ctx, c, req)
}

// FetchSchedules retrieves SchoolSchedule rows.
func (c *Client) FetchSchedules(ctx context.Context, from, to string) ([]neismodel.ScheduleRow, error) {
	req := c.schoolRequest(neismodel.ServiceSchedule, 1).
		addRange("AA_FROM_YMD", "AA_TO_YMD", from, to)
	return fetchRows[neismodel.ScheduleRow](ctx, c, req)
}

// FetchTimetablePage retrieves one page of hisTimetable rows. Pages start at 1.
func (c *Client) FetchTimetablePage(ctx context.Context, from, to string, page int) ([]neismodel.TimetableRow, error) {
	req := c.schoolRequest(neismodel.ServiceTimetable, page).
		addRange("TI_FROM_YMD", "TI_TO_YMD", from, to)
	return fetchRows[neismodel.TimetableRow](ctx, c, req)
}

// schoolRequest starts a request with the school identity and paging parameters.
func (c *Client) schoolRequest(service string, page int) *apiRequest {
	return newAPIRequest(service).
		addIntParam("pIndex", page).
		addIntParam("pSize", c.pageSize).
		addParam("ATPT_OFCDC_SC_CODE", c.regionCode).
		addParam("SD_SCHUL_CODE", c.schoolCode)
}

// fetchRows executes a request and decodes the envelope's rows.
func fetchRows[T any](ctx context.Context, c *Client, req *apiRequest) ([]T, error) {
	resp, err := c.doRequestWithRetry(ctx, req.service, req.buildURL(c.baseURL, c.apiKey))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.service, stripURL(err))
	}

	rows, err := decodeEnvelope[T](req.service, body)
	if err != nil {
		return nil, err
	}
	metrics.RecordNEISRows(req.service, len(rows))
	return rows, nil
}

// doRequestWithRetry performs a GET with pacing and automatic retry.
// HTTP 429 and 5xx responses are retried with exponential backoff
// (base, 2*base, 4*base, ...) unless the hub sends Retry-After.
// Returns a response with status 200 or an error; the caller closes the body.
func (c *Client) doRequestWithRetry(ctx context.Context, service, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s rate limiter: %w", service, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %w", service, stripURL(err))
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordNEISRequest(service, 0, time.Since(start))
			return nil, fmt.Errorf("%s request failed: %w", service, stripURL(err))
		}
		metrics.RecordNEISRequest(service, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		body := readBodyForError(resp.Body)
		_ = resp.Body.Close() // Explicitly ignore error - body already consumed
		apiErr := &APIError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}

		if !retryable(resp.StatusCode) || attempt >= c.maxRetries {
			return nil, apiErr
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		// Check for Retry-After header (RFC 6585)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		metrics.NEISRetries.WithLabelValues(service).Inc()
		logging.Ctx(ctx).Debug().
			Str("service", service).
			Int("status", resp.StatusCode).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying NEIS request")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// retryable reports whether a status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
