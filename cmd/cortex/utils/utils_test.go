package utils

import (
	"testing"
	"time"
)

// TestFormatTime tests relative time rendering
func TestFormatTime(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-3 * time.Minute)

	if got := FormatTime(nil, now); got != "-" {
		t.Errorf("FormatTime(nil) = %q, want \"-\"", got)
	}
	if got := FormatTime(&time.Time{}, now); got != "-" {
		t.Errorf("FormatTime(zero) = %q, want \"-\"", got)
	}
	if got := FormatTime(&past, now); got != "3 minutes ago" {
		t.Errorf("FormatTime(past) = %q, want \"3 minutes ago\"", got)
	}
}

// TestTruncate tests table cell truncation
func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{input: "short", max: 10, want: "short"},
		{input: "exactly-10", max: 10, want: "exactly-10"},
		{input: "this is far too long", max: 10, want: "this is..."},
		{input: "line one\nline two", max: 40, want: "line one line two"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

// TestFormatValue tests one-line rendering of generic JSON values
func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: "-"},
		{name: "empty string", input: "", want: "-"},
		{name: "string", input: "RUNNING", want: "RUNNING"},
		{name: "bool", input: true, want: "true"},
		{name: "whole number", input: float64(3), want: "3"},
		{name: "fraction", input: 0.25, want: "0.25"},
		{name: "object", input: map[string]any{"a": float64(1)}, want: `{"a":1}`},
		{name: "array", input: []any{"x", "y"}, want: `["x","y"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.input); got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConversions tests typed extraction from generic maps
func TestConversions(t *testing.T) {
	m := map[string]any{
		"name":      "ingest",
		"count":     float64(2),
		"startTime": "2026-10-01T09:00:00Z",
		"badTime":   "yesterday",
	}

	if GetString(m, "name") != "ingest" || GetString(m, "count") != "" {
		t.Error("GetString returned unexpected values")
	}
	if ts := GetTime(m, "startTime"); ts == nil || ts.Hour() != 9 {
		t.Errorf("GetTime(startTime) = %v", ts)
	}
	if GetTime(m, "badTime") != nil || GetTime(m, "missing") != nil {
		t.Error("GetTime should return nil for unparseable or missing values")
	}
}
