package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// MultiLimiter manages multiple rate limiters for different platforms
type MultiLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewMultiLimiter creates a new multi-limiter
func NewMultiLimiter() *MultiLimiter {
	return &MultiLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// AddLimiter adds a new rate limiter for a platform
// requestsPerSecond: the rate limit (e.g., 10 means 10 requests per second)
// burst: maximum burst size
func (m *MultiLimiter) AddLimiter(name string, requestsPerSecond float64, burst int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[name] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until the limiter allows an event
func (m *MultiLimiter) Wait(ctx context.Context, name string) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("limiter %s not found", name)
	}

	return limiter.Wait(ctx)
}

// Default rate limiter names
const (
	LimiterReddit  = "reddit"
	LimiterX       = "x"
	LimiterYouTube = "youtube"
	LimiterRSS     = "rss"
)

// NewDefaultLimiter creates a limiter with the per-platform throttle budgets
// applied between successive target fetches within one collection run.
func NewDefaultLimiter() *MultiLimiter {
	m := NewMultiLimiter()

	// Reddit: 60 requests per minute allowed, keep to 1 per second
	m.AddLimiter(LimiterReddit, 1, 1)

	// X: recent search is tightly limited, ~1 request per 1.1 seconds
	m.AddLimiter(LimiterX, 1.0/1.1, 1)

	// YouTube: quota-bound rather than rate-bound, 5 per second is polite
	m.AddLimiter(LimiterYouTube, 5, 1)

	// RSS: no strict limit, 1 per second per feed host is polite
	m.AddLimiter(LimiterRSS, 1, 1)

	return m
}
