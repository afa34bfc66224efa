// Package ratelimit provides the counting store behind the request
// throttles. The store is deliberately process-local and resets on restart;
// swapping in a shared implementation is a call-site-compatible change via
// the Store interface, but the in-memory default is the intended behavior.
package ratelimit

import (
	"sync"
	"time"
)

// Store counts actions per key inside a fixed time window and reports
// whether the current action is still within the limit. The increment and
// the comparison are atomic per key; rejected actions still consume quota.
type Store interface {
	Allow(key string, limit int, window time.Duration) bool
}

type windowCount struct {
	start time.Time
	count int
}

// MemoryStore is the default Store: a mutex-guarded map of fixed windows.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*windowCount
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*windowCount),
		now:     time.Now,
	}
}

// Allow increments the counter for key and reports whether the count is
// within limit for the window containing now. A window that has elapsed is
// replaced rather than slid.
func (s *MemoryStore) Allow(key string, limit int, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= window {
		s.windows[key] = &windowCount{start: now, count: 1}
		s.pruneLocked(now)
		return limit >= 1
	}
	w.count++
	return w.count <= limit
}

// pruneLocked drops windows that expired more than an hour ago so the map
// does not grow without bound under rotating keys.
func (s *MemoryStore) pruneLocked(now time.Time) {
	if len(s.windows) < 1024 {
		return
	}
	for k, w := range s.windows {
		if now.Sub(w.start) > time.Hour {
			delete(s.windows, k)
		}
	}
}
