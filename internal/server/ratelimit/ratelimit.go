// Package ratelimit throttles abuse-prone account operations (register,
// login, resend, forgot password) per client address and per email.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	// Allow records one hit for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

// Noop allows everything.
type Noop struct{}

func (Noop) Allow(context.Context, string) (bool, error) { return true, nil }

// MemoryLimiter is a single-process fixed window limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	rate    int
	window  time.Duration
	now     func() time.Time
	entries map[string]*window
}

type window struct {
	count int
	ends  time.Time
}

func NewMemoryLimiter(rate int, w time.Duration) *MemoryLimiter {
	return &MemoryLimiter{rate: rate, window: w, now: time.Now, entries: make(map[string]*window)}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || !now.Before(e.ends) {
		m.sweep(now)
		m.entries[key] = &window{count: 1, ends: now.Add(m.window)}
		return m.rate >= 1, nil
	}

	e.count++
	return e.count <= m.rate, nil
}

// sweep drops finished windows; callers hold mu.
func (m *MemoryLimiter) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.ends) {
			delete(m.entries, k)
		}
	}
}
