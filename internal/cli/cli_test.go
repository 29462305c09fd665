// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package cli

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/tomtom215/hdmeal-api/internal/api"
)

// run executes RootCmd with args and returns stdout. Flags persist between
// runs, so callers pass every flag they depend on.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&bytes.Buffer{})
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestWindowCommand(t *testing.T) {
	out, err := run(t, "window", "--timezone", "Asia/Seoul", "--now", "2024-03-05T12:00:00+09:00")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 21 {
		t.Fatalf("got %d lines, want 21:\n%s", len(lines), out)
	}
	if lines[0] != "2024-02-24" || lines[20] != "2024-03-15" {
		t.Errorf("bounds = %s..%s", lines[0], lines[20])
	}
	if lines[10] != "2024-03-05  (today)" {
		t.Errorf("today line = %q", lines[10])
	}
}

func TestWindowCommand_ZoneDecidesToday(t *testing.T) {
	// 16:00 UTC on the 5th is already the 6th in Seoul.
	out, err := run(t, "window", "--timezone", "Asia/Seoul", "--now", "2024-03-05T16:00:00Z")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if !strings.Contains(out, "2024-03-06  (today)") {
		t.Errorf("output does not mark 2024-03-06 as today:\n%s", out)
	}

	out, err = run(t, "window", "--timezone", "UTC", "--now", "2024-03-05T16:00:00Z")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if !strings.Contains(out, "2024-03-05  (today)") {
		t.Errorf("output does not mark 2024-03-05 as today:\n%s", out)
	}
}

func TestCacheHeaderCommand(t *testing.T) {
	tests := []struct {
		now  string
		want string
	}{
		{"2024-03-05T12:00:00+09:00", "s-maxage=1800, stale-while-revalidate=41400"},
		{"2024-03-05T23:45:00+09:00", "s-maxage=900"},
	}
	for _, tt := range tests {
		out, err := run(t, "cache-header", "--timezone", "Asia/Seoul", "--now", tt.now, "--max-age", "1800")
		if err != nil {
			t.Fatalf("cache-header: %v", err)
		}
		if got := strings.TrimSpace(out); got != tt.want {
			t.Errorf("now=%s: got %q, want %q", tt.now, got, tt.want)
		}
	}

	if _, err := run(t, "cache-header", "--timezone", "Asia/Seoul", "--now", "2024-03-05T12:00:00+09:00", "--max-age", "0"); err == nil {
		t.Error("cache-header accepted --max-age 0")
	}
}

func TestBadFlags(t *testing.T) {
	if _, err := run(t, "window", "--timezone", "Nowhere/Land", "--now", ""); err == nil {
		t.Error("window accepted an unknown zone")
	}
	if _, err := run(t, "window", "--timezone", "Asia/Seoul", "--now", "yesterday"); err == nil {
		t.Error("window accepted a malformed --now")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "API versions: [v2 v3 v4]") {
		t.Errorf("version output = %q", out)
	}
}

func TestFetchCommand_RejectsVersion(t *testing.T) {
	_, err := run(t, "fetch", "--version", "v1", "--timezone", "Asia/Seoul", "--now", "")
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("fetch --version v1 err = %v", err)
	}
}

func TestWriteResponse(t *testing.T) {
	t.Parallel()

	ok := &api.Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {api.ContentTypeJSON}, "Cache-Control": {"s-maxage=900"}},
		Body:   []byte(`{"2024-03-05":{"Schedule":null}}`),
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := writeResponse(cmd, ok, true, true); err != nil {
		t.Fatalf("writeResponse: %v", err)
	}
	want := "200 OK\nContent-Type: application/json; charset=utf-8\nCache-Control: s-maxage=900\n\n" +
		"{\n  \"2024-03-05\": {\n    \"Schedule\": null\n  }\n}\n"
	if out.String() != want {
		t.Errorf("got\n%s\nwant\n%s", out.String(), want)
	}

	out.Reset()
	failed := &api.Response{Status: http.StatusBadGateway, Body: []byte(`{}`)}
	if err := writeResponse(cmd, failed, true, false); err == nil {
		t.Error("writeResponse returned nil for 502")
	}
	if out.String() != "{}\n" {
		t.Errorf("error body = %q", out.String())
	}
}
