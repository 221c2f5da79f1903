package nlu

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimit is the maximum number of NLU calls allowed per
	// conversation per minute when no explicit limit is configured.
	DefaultRateLimit = 20

	// defaultRateLimitWindow is the sliding window duration.
	defaultRateLimitWindow = time.Minute
)

// RateLimiter enforces a per-conversation sliding-window limit on NLU calls
// so one chatty conversation cannot burn the whole CLU quota.
//
// It keeps the call timestamps for each conversation within the current
// window and prunes stale entries on every Allow call, bounding memory to
// O(limit) per active conversation.
//
// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string][]time.Time // conversation ID → call timestamps in window
}

// NewRateLimiter returns a RateLimiter allowing at most limit calls per
// conversation within window. Non-positive arguments fall back to
// DefaultRateLimit and one minute.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return &RateLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string][]time.Time),
	}
}

// Allow reports whether the conversation may make another NLU call, and
// records the current timestamp when it may.
func (r *RateLimiter) Allow(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	existing := r.counters[conversationID]
	valid := existing[:0] // reuse backing array
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= r.limit {
		r.counters[conversationID] = valid
		return false
	}

	r.counters[conversationID] = append(valid, now)
	return true
}
