// Package errdefs defines the categorized errors returned by cortex commands.
//
// Every command returns its failures as an *Error so the dispatcher can pick
// the exit code and the message printed to stderr without parsing text. The
// category travels next to the wrapped error; Error() returns only the
// human-readable message.
//
// ERROR CATEGORIES:
//   - usage: bad or missing CLI arguments and flags
//   - not_found: unknown profile, job or task
//   - compatibility: CLI version rejected by the API (suppressible via --no-compat)
//   - query: invalid or failing JMESPath expression
//   - auth: missing or expired credentials, 401/403 from the API
//   - api: any other API or network failure, surfaced verbatim
//   - internal: local I/O and encoding failures
package errdefs

import (
	"errors"
	"fmt"
)

// Category classifies a command error.
type Category string

const (
	CategoryUsage         Category = "usage"
	CategoryNotFound      Category = "not_found"
	CategoryCompatibility Category = "compatibility"
	CategoryQuery         Category = "query"
	CategoryAuth          Category = "auth"
	CategoryAPI           Category = "api"
	CategoryInternal      Category = "internal"
)

// Error is a categorized error. Use the category constructors rather than
// building one directly.
type Error struct {
	Category Category
	Err      error
}

// Error returns the underlying message without the category.
func (e *Error) Error() string { return e.Err.Error() }

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

func newError(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Err: fmt.Errorf(format, args...)}
}

// Usage creates an error for bad CLI input.
func Usage(format string, args ...any) *Error {
	return newError(CategoryUsage, format, args...)
}

// NotFound creates an error for an unknown profile, job or task.
func NotFound(format string, args ...any) *Error {
	return newError(CategoryNotFound, format, args...)
}

// Compatibility creates an error for a CLI/API version mismatch.
func Compatibility(format string, args ...any) *Error {
	return newError(CategoryCompatibility, format, args...)
}

// Query creates an error for an invalid filter expression.
func Query(format string, args ...any) *Error {
	return newError(CategoryQuery, format, args...)
}

// Auth creates an error for missing, rejected or expired credentials.
func Auth(format string, args ...any) *Error {
	return newError(CategoryAuth, format, args...)
}

// API creates an error for a failed API call.
func API(format string, args ...any) *Error {
	return newError(CategoryAPI, format, args...)
}

// Internal creates an error for local failures.
func Internal(format string, args ...any) *Error {
	return newError(CategoryInternal, format, args...)
}

// CategoryOf returns the category of err, or "" when err is nil or carries
// no category.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// Is reports whether err carries the given category.
func Is(err error, category Category) bool {
	return err != nil && CategoryOf(err) == category
}

// ExitCode maps an error to the process exit status: 0 for nil, 2 for usage
// errors and 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case Is(err, CategoryUsage):
		return 2
	default:
		return 1
	}
}
