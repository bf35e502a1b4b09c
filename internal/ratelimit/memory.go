package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements Limiter with in-process counters.
// Counters are NOT shared across process restarts or multiple instances.
type MemoryLimiter struct {
	cfg     Config
	mu      sync.Mutex
	windows map[string]*windowEntry
}

// windowEntry tracks one client's current window.
type windowEntry struct {
	start time.Time
	count int
}

// NewMemoryLimiter creates a new in-memory limiter.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	ml := &MemoryLimiter{
		cfg:     cfg,
		windows: make(map[string]*windowEntry),
	}

	// Background cleanup of stale windows.
	go ml.cleanupLoop()

	return ml
}

// Allow records one request for key within the current fixed window.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, ok := m.windows[key]
	if !ok || now.Sub(entry.start) >= m.cfg.Window {
		m.windows[key] = &windowEntry{start: now, count: 1}
		return true, nil
	}

	entry.count++
	return entry.count <= m.cfg.RequestsPerWindow, nil
}

// cleanupLoop periodically removes expired windows.
func (m *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

// cleanup removes windows that ended before now.
func (m *MemoryLimiter) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, entry := range m.windows {
		if now.Sub(entry.start) >= m.cfg.Window {
			delete(m.windows, key)
		}
	}
}

// Ensure MemoryLimiter implements Limiter.
var _ Limiter = (*MemoryLimiter)(nil)
