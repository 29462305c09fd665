// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package validation

import (
	"strings"
	"testing"
	_ "time/tzdata"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type versionRequest struct {
	Version string `validate:"required,api_version"`
}

func TestValidateStruct_APIVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		valid   bool
	}{
		{"v2", true},
		{"v3", true},
		{"v4", true},
		{"v1", false},
		{"V2", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateStruct(&versionRequest{Version: tt.version})
		if tt.valid && err != nil {
			t.Errorf("version %q: unexpected error %v", tt.version, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("version %q: expected error", tt.version)
		}
	}
}

type schoolFixture struct {
	Grades   int    `validate:"min=1,max=6"`
	Code     string `validate:"required,len=7"`
	From     string `validate:"neis_date"`
	Timezone string `validate:"timezone"`
}

func TestValidateStruct_Messages(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&schoolFixture{Grades: 9, Code: "", From: "2024-01-01", Timezone: "Mars/Olympus"})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(err.Errors()), err)
	}

	msg := err.Error()
	for _, want := range []string{
		"Grades must be at most 6",
		"Code is required",
		"From must be a date in YYYYMMDD format",
		"Timezone must be a valid IANA time zone",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
	if !err.HasField("Grades") {
		t.Error("expected HasField(Grades) to be true")
	}
	if err.HasField("Classes") {
		t.Error("expected HasField(Classes) to be false")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	ok := schoolFixture{Grades: 3, Code: "7010569", From: "20240311", Timezone: "Asia/Seoul"}
	if err := ValidateStruct(&ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIsSupportedVersion(t *testing.T) {
	t.Parallel()

	if !IsSupportedVersion("v3") {
		t.Error("expected v3 to be supported")
	}
	if IsSupportedVersion("v5") {
		t.Error("expected v5 to be unsupported")
	}
}
