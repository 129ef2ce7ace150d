package ratelimiter

import "time"

// RateLimiter decides whether one more request may proceed right now.
type RateLimiter interface {
	// Allow returns true if the request is allowed, otherwise returns false.
	Allow() bool
}

// clock is swapped in tests.
type clock func() time.Time
