package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	failures    int
	windowEnds  time.Time
	lockedUntil time.Time
}

// MemoryLoginLimiter is the single-process LoginLimiter used when Redis is
// not configured. State is lost on restart.
type MemoryLoginLimiter struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

func NewMemoryLoginLimiter(maxAttempts int, lockout time.Duration) *MemoryLoginLimiter {
	return &MemoryLoginLimiter{
		entries:     make(map[string]*memoryEntry),
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

func (l *MemoryLoginLimiter) IsLocked(_ context.Context, username string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[normalizeUsername(username)]
	if !ok {
		return false, nil
	}
	return l.now().Before(e.lockedUntil), nil
}

func (l *MemoryLoginLimiter) RecordFailure(_ context.Context, username string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := normalizeUsername(username)
	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnds) {
		e = &memoryEntry{}
		l.entries[key] = e
	}

	e.failures++
	e.windowEnds = now.Add(l.lockout)
	if e.failures < l.maxAttempts {
		return false, nil
	}
	e.lockedUntil = now.Add(l.lockout)
	return true, nil
}

func (l *MemoryLoginLimiter) Reset(_ context.Context, username string) error {
	l.mu.Lock()
	delete(l.entries, normalizeUsername(username))
	l.mu.Unlock()
	return nil
}
