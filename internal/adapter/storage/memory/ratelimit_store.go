package memory

import (
	"context"
	"sync"
	"time"

	"merchant-webhooks/internal/core/ports"
)

// RateLimitStore implements ports.RateLimitStore with fixed windows held in a map.
// Expired windows are dropped lazily on the next hit for the same key.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]rateWindow
	now     func() time.Time
}

type rateWindow struct {
	id    int64
	count int64
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: make(map[string]rateWindow), now: time.Now}
}

func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	windowSecs := int64(window.Seconds())
	if windowSecs < 1 {
		windowSecs = 1
	}
	windowID := s.now().Unix() / windowSecs

	s.mu.Lock()
	w := s.windows[key]
	if w.id != windowID {
		w = rateWindow{id: windowID}
	}
	w.count++
	s.windows[key] = w
	s.mu.Unlock()

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return &ports.RateLimitResult{
		Allowed:   w.count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   (windowID + 1) * windowSecs,
	}, nil
}
