package errdefs

import (
	"errors"
	"fmt"
	"testing"
)

// TestCategoryOf tests category extraction through wrapping
func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "usage", err: Usage("missing jobId"), want: CategoryUsage},
		{name: "wrapped not found", err: fmt.Errorf("describe: %w", NotFound("task %s not found", "t1")), want: CategoryNotFound},
		{name: "query", err: Query("bad expression"), want: CategoryQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.want {
				t.Errorf("CategoryOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestErrorMessage tests that the category is not part of the message
func TestErrorMessage(t *testing.T) {
	err := NotFound("profile '%s' not found", "staging")
	if err.Error() != "profile 'staging' not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

// TestUnwrap tests that the wrapped cause stays reachable
func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := API("request failed: %w", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find wrapped cause")
	}
}

// TestExitCode tests exit status mapping
func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "usage", err: Usage("unknown command"), want: 2},
		{name: "not found", err: NotFound("x"), want: 1},
		{name: "untyped", err: errors.New("x"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
