// Package utils provides small helpers shared by the cortex packages.
//
// This file implements request ID generation. Every API request carries an
// X-Request-Id header so a failing call can be matched with the server's
// logs; debug output shows the short form.
package utils

import (
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request ID.
const RequestIDHeader = "X-Request-Id"

// NewRequestID returns a random UUID for one API request.
func NewRequestID() string {
	return uuid.NewString()
}

// ShortID returns the first 8 characters of an ID for log lines, similar to
// short commit hashes.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
