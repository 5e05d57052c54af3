// Package ratelimit provides rate limiting domain types.
// Its single consumer is login throttling: failed credential guessing against
// the one admin account is the only brute-forceable surface of the system.
package ratelimit

import (
	"fmt"
	"time"
)

// Config defines the rate limiting parameters.
type Config struct {
	// Rate is the number of allowed events in the period.
	Rate int

	// Burst is the maximum number of events that can occur at once.
	// Burst should be >= Rate for meaningful operation.
	Burst int

	// Period is the time window for the rate limit.
	Period time.Duration
}

// Result contains the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Remaining is the number of remaining requests in the current window.
	Remaining int

	// RetryAfter is the duration until the next request will be allowed.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration

	// ResetAfter is the duration until the rate limit resets.
	ResetAfter time.Duration
}

// LoginKey returns the rate limit key for login attempts from one client IP.
func LoginKey(ip string) string {
	return fmt.Sprintf("login:ip:%s", ip)
}
