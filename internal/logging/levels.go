// Package logging provides centralized log level validation for the cortex CLI.
//
// SUPPORTED LOG LEVELS:
//   - DEBUG: request/response detail for troubleshooting API calls
//   - INFO:  progress messages about command execution
//   - WARN:  non-fatal conditions such as compatibility warnings
//   - ERROR: failures (the CLI default)
//
// Level strings are case-sensitive and must be uppercase.
package logging

import "fmt"

// ValidLogLevels defines the canonical set of supported log levels.
var ValidLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// IsValidLogLevel checks if the provided log level string is supported.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[level]
}

// ValidateLogLevel validates a log level string and returns an error if invalid.
// Used by --log-level flag validation before any command runs.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}
