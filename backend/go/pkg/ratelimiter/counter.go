package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowCounter implements RateLimiter by allowing at most limit
// requests per fixed time window.
type FixedWindowCounter struct {
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         clock
	mutex       sync.Mutex
}

// NewFixedWindowCounter creates a new FixedWindowCounter.
func NewFixedWindowCounter(limit int, window time.Duration) *FixedWindowCounter {
	return newFixedWindowCounter(limit, window, time.Now)
}

func newFixedWindowCounter(limit int, window time.Duration, now clock) *FixedWindowCounter {
	return &FixedWindowCounter{
		limit:       limit,
		window:      window,
		windowStart: now(),
		now:         now,
	}
}

// Allow starts a new window when the current one has passed and counts the
// request if the window still has room.
func (fwc *FixedWindowCounter) Allow() bool {
	fwc.mutex.Lock()
	defer fwc.mutex.Unlock()

	now := fwc.now()
	if !now.Before(fwc.windowStart.Add(fwc.window)) {
		fwc.windowStart = now
		fwc.count = 0
	}

	if fwc.count < fwc.limit {
		fwc.count++
		return true
	}
	return false
}
