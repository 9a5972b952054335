package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoginLimiterLocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLoginLimiter(3, 15*time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		locked, err := l.RecordFailure(ctx, "Alice")
		require.NoError(t, err)
		assert.False(t, locked)
	}

	locked, err := l.RecordFailure(ctx, "alice ")
	require.NoError(t, err)
	assert.True(t, locked, "usernames are compared case-insensitively")

	locked, err = l.IsLocked(ctx, "ALICE")
	require.NoError(t, err)
	assert.True(t, locked)

	now = now.Add(16 * time.Minute)
	locked, err = l.IsLocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, locked, "lock expires after the lockout window")
}

func TestMemoryLoginLimiterWindowResets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLoginLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	_, _ = l.RecordFailure(ctx, "bob")
	now = now.Add(2 * time.Minute)

	locked, err := l.RecordFailure(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, locked, "failures outside the window start a new count")
}

func TestMemoryLoginLimiterReset(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLoginLimiter(1, time.Minute)

	locked, err := l.RecordFailure(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, l.Reset(ctx, "carol"))
	locked, err = l.IsLocked(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestNewRedisLoginLimiterRejectsBadURL(t *testing.T) {
	_, err := NewRedisLoginLimiter(context.Background(), "not a url", 5, time.Minute)
	assert.Error(t, err)
}

func TestKeysAreNormalized(t *testing.T) {
	assert.Equal(t, "rl:loginfail:user:alice", failureKey(" Alice "))
	assert.Equal(t, "lock:login:user:alice", lockKey("ALICE"))
}

var (
	_ LoginLimiter = (*RedisLoginLimiter)(nil)
	_ LoginLimiter = (*MemoryLoginLimiter)(nil)
)
