package ratelimiter

import (
	"sync"
	"time"
)

// TokenBucket implements RateLimiter with the token bucket algorithm.
// It allows bursts of requests up to the bucket's capacity.
type TokenBucket struct {
	rate     float64 // tokens generated per second
	capacity float64
	tokens   float64
	last     time.Time
	now      clock
	mutex    sync.Mutex
}

// NewTokenBucket creates a full TokenBucket.
// rate: the number of tokens to generate per second.
// capacity: the maximum number of tokens (burst size).
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return newTokenBucket(rate, capacity, time.Now)
}

func newTokenBucket(rate float64, capacity int, now clock) *TokenBucket {
	return &TokenBucket{
		rate:     rate,
		capacity: float64(capacity),
		tokens:   float64(capacity),
		last:     now(),
		now:      now,
	}
}

// Allow refills the bucket for the elapsed time and takes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := tb.now()
	if elapsed := now.Sub(tb.last); elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed.Seconds()*tb.rate)
		tb.last = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}
