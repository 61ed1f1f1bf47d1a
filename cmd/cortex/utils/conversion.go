// Package utils provides type-safe data conversion utilities for the cortex CLI.
//
// Task details come back from the API as untyped JSON maps so that fields
// the CLI does not know about still reach the user. These helpers pull typed
// values out of such maps without panicking on unexpected shapes.
package utils

import (
	"encoding/json"
	"strconv"
	"time"
)

// GetString safely extracts a string value from any maps.
// Returns empty string if key doesn't exist or type assertion fails.
func GetString(m map[string]any, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetTime safely extracts a time value from any maps.
// Parses RFC3339 formatted strings to time.Time.
// Returns nil if key doesn't exist, isn't a string, or parsing fails.
func GetTime(m map[string]any, key string) *time.Time {
	if val, ok := m[key].(string); ok {
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return &t
		}
	}
	return nil
}

// FormatValue renders a generic JSON value on one line. Whole numbers print
// without a fraction, nested objects and arrays print as compact JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return OrDash(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "-"
		}
		return string(data)
	}
}
