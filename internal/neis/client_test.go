// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package neis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/hdmeal-api/internal/config"
	"github.com/tomtom215/hdmeal-api/internal/metrics"
	neismodel "github.com/tomtom215/hdmeal-api/internal/models/neis"
)

const testAPIKey = "secret-test-key"

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	return NewClient(&config.NEISConfig{
		BaseURL:        baseURL,
		APIKey:         testAPIKey,
		MealCode:       "2",
		PageSize:       1000,
		MaxPages:       50,
		Timeout:        5 * time.Second,
		MaxRetries:     maxRetries,
		RetryBaseDelay: time.Millisecond,
		RateBurst:      1,
	}, &config.SchoolConfig{
		RegionCode: "J10",
		SchoolCode: "7530079",
		Grades:     3,
		Classes:    10,
	})
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchMeals(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mealServiceDietInfo" {
			t.Errorf("path = %q, want /mealServiceDietInfo", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"KEY":                testAPIKey,
			"Type":               "json",
			"ATPT_OFCDC_SC_CODE": "J10",
			"SD_SCHUL_CODE":      "7530079",
			"MMEAL_SC_CODE":      "2",
			"MLSV_FROM_YMD":      "20240224",
			"MLSV_TO_YMD":        "20240315",
			"pIndex":             "1",
			"pSize":              "1000",
		}
		for key, value := range want {
			if got := q.Get(key); got != value {
				t.Errorf("query %s = %q, want %q", key, got, value)
			}
		}
		_, _ = w.Write([]byte(`{"mealServiceDietInfo":[
			{"head":[{"list_total_count":2},{"RESULT":{"CODE":"INFO-000","MESSAGE":"정상 처리되었습니다."}}]},
			{"row":[
				{"MLSV_YMD":"20240304","DDISH_NM":"쌀밥<br/>돈육김치찌개1.5.6.9.","CAL_INFO":"650.5 Kcal"},
				{"MLSV_YMD":"20240305","DDISH_NM":"카레라이스","CAL_INFO":"700 Kcal"}
			]}
		]}`))
	}))
	defer srv.Close()

	rows, err := newTestClient(t, srv.URL, 0).FetchMeals(context.Background(), "20240224", "20240315")
	if err != nil {
		t.Fatalf("FetchMeals: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Date != "20240304" || rows[0].Calories != "650.5 Kcal" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Dishes != "카레라이스" {
		t.Errorf("rows[1].Dishes = %q", rows[1].Dishes)
	}
}

func TestClient_FetchSchedules(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/SchoolSchedule" || q.Get("AA_FROM_YMD") != "20240224" || q.Get("AA_TO_YMD") != "20240315" {
			t.Errorf("unexpected request %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"SchoolSchedule":[{"head":[{"list_total_count":1}]},{"row":[
			{"AA_YMD":"20240304","EVENT_NM":" 현장학습 ","ONE_GRADE_EVENT_YN":"Y","TW_GRADE_EVENT_YN":"Y","THREE_GRADE_EVENT_YN":"N",
			 "FR_GRADE_EVENT_YN":null,"FIV_GRADE_EVENT_YN":"*","SIX_GRADE_EVENT_YN":"*"}
		]}]}`))
	}))
	defer srv.Close()

	rows, err := newTestClient(t, srv.URL, 0).FetchSchedules(context.Background(), "20240224", "20240315")
	if err != nil {
		t.Fatalf("FetchSchedules: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	flags := rows[0].GradeFlags()
	if flags[0] != "Y" || flags[1] != "Y" || flags[2] != "N" || flags[3] != "" {
		t.Errorf("GradeFlags() = %v", flags)
	}
}

func TestClient_FetchTimetablePage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/hisTimetable" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if q.Get("pIndex") != "3" || q.Get("pSize") != "1000" {
			t.Errorf("paging = %s/%s, want 3/1000", q.Get("pIndex"), q.Get("pSize"))
		}
		if q.Get("TI_FROM_YMD") != "20240224" || q.Get("TI_TO_YMD") != "20240315" {
			t.Errorf("range = %s..%s", q.Get("TI_FROM_YMD"), q.Get("TI_TO_YMD"))
		}
		// GRADE and CLASS_NM arrive as numbers for some schools.
		_, _ = w.Write([]byte(`{"hisTimetable":[{"head":[]},{"row":[
			{"ALL_TI_YMD":"20240304","GRADE":1,"CLASS_NM":"2","PERIO":"1","ITRT_CNTNT":"국어"}
		]}]}`))
	}))
	defer srv.Close()

	rows, err := newTestClient(t, srv.URL, 0).FetchTimetablePage(context.Background(), "20240224", "20240315", 3)
	if err != nil {
		t.Fatalf("FetchTimetablePage: %v", err)
	}
	if len(rows) != 1 || rows[0].Grade != "1" || rows[0].Class != "2" || rows[0].Activity != "국어" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestClient_EnvelopeShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantRows   int
		wantResult string // ERROR-xxx code expected in neis_result_errors_total
		wantErr    bool
	}{
		{
			name:     "no data",
			body:     `{"RESULT":{"CODE":"INFO-200","MESSAGE":"해당하는 데이터가 없습니다."}}`,
			wantRows: 0,
		},
		{
			name:       "invalid key",
			body:       `{"RESULT":{"CODE":"ERROR-290","MESSAGE":"인증키가 유효하지 않습니다."}}`,
			wantResult: "ERROR-290",
		},
		{
			name:       "error in head",
			body:       `{"mealServiceDietInfo":[{"head":[{"list_total_count":0},{"RESULT":{"CODE":"ERROR-337","MESSAGE":"일별 트래픽 제한"}}]}]}`,
			wantResult: "ERROR-337",
		},
		{
			name:     "missing service key",
			body:     `{"somethingElse":[]}`,
			wantRows: 0,
		},
		{
			name:     "malformed sections",
			body:     `{"mealServiceDietInfo":"oops"}`,
			wantRows: 0,
		},
		{
			name:     "head only",
			body:     `{"mealServiceDietInfo":[{"head":[{"list_total_count":0}]}]}`,
			wantRows: 0,
		},
		{
			name:    "not json",
			body:    `<html>maintenance</html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var counter prometheus.Counter
			var before float64
			if tt.wantResult != "" {
				counter = metrics.NEISResultErrors.WithLabelValues(neismodel.ServiceMeal, tt.wantResult)
				before = testutil.ToFloat64(counter)
			}

			srv := serveJSON(t, tt.body)
			rows, err := newTestClient(t, srv.URL, 0).FetchMeals(context.Background(), "20240224", "20240315")

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(rows) != tt.wantRows {
				t.Errorf("len(rows) = %d, want %d", len(rows), tt.wantRows)
			}
			if counter != nil {
				if got := testutil.ToFloat64(counter); got != before+1 {
					t.Errorf("neis_result_errors_total{code=%q} = %v, want %v", tt.wantResult, got, before+1)
				}
			}
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"mealServiceDietInfo":[{"head":[]},{"row":[{"MLSV_YMD":"20240304","DDISH_NM":"밥","CAL_INFO":"1 Kcal"}]}]}`))
	}))
	defer srv.Close()

	rows, err := newTestClient(t, srv.URL, 3).FetchMeals(context.Background(), "20240224", "20240315")
	if err != nil {
		t.Fatalf("FetchMeals: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want 1", len(rows))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestClient_RateLimitExhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 2).FetchMeals(context.Background(), "20240224", "20240315")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Service != "mealServiceDietInfo" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", got)
	}
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such service", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 3).FetchSchedules(context.Background(), "20240224", "20240315")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 *APIError", err)
	}
	if !strings.Contains(apiErr.Body, "no such service") {
		t.Errorf("Body = %q", apiErr.Body)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestClient_BackoffHonoursContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestClient(t, srv.URL, 3).FetchMeals(ctx, "20240224", "20240315")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("backoff ignored context, took %v", elapsed)
	}
}

func TestClient_TransportErrorHidesKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url, 0).FetchMeals(context.Background(), "20240224", "20240315")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), testAPIKey) {
		t.Errorf("error leaks API key: %v", err)
	}
}

func TestReadBodyForError_Truncates(t *testing.T) {
	t.Parallel()

	body := readBodyForError(strings.NewReader(strings.Repeat("x", maxErrorBodySize+10)))
	if !strings.HasSuffix(string(body), "(truncated)") {
		t.Errorf("expected truncation marker, got %d bytes", len(body))
	}
}

func TestAPIRequest_BuildURL(t *testing.T) {
	t.Parallel()

	got := newAPIRequest("hisTimetable").
		addIntParam("pIndex", 2).
		addIntParam("pSize", 0).
		addParam("SD_SCHUL_CODE", "").
		buildURL("https://open.neis.go.kr/hub/", "k")

	want := "https://open.neis.go.kr/hub/hisTimetable?KEY=k&Type=json&pIndex=2"
	if got != want {
		t.Errorf("buildURL = %q, want %q", got, want)
	}
}
