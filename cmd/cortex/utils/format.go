// Package utils provides utility functions for the cortex CLI.
package utils

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatTime renders t relative to now ("3 minutes ago"). A nil or zero time
// renders as "-".
func FormatTime(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return humanize.RelTime(*t, now, "ago", "from now")
}

// Truncate shortens s to max runes, marking the cut with "...". Table cells
// use it so one long message does not push every other column off screen.
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max || max < 4 {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// OrDash returns "-" for empty strings.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
