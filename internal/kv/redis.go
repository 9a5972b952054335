// Package kv keeps short-lived login lockout state, in Redis when configured.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	failureKeyPrefix = "rl:loginfail:user:"
	lockKeyPrefix    = "lock:login:user:"
	lockValue        = "1"

	errParseRedisURLFmt = "failed to parse REDIS_URL: %w"
	errPingRedisFmt     = "failed to reach redis: %w"
)

// LoginLimiter tracks failed logins per username and locks the account
// after too many of them within the lockout window.
type LoginLimiter interface {
	IsLocked(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt and reports whether the account is now locked.
	RecordFailure(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}

type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	lockout     time.Duration
}

// NewRedisLoginLimiter connects using a redis:// or rediss:// URL.
func NewRedisLoginLimiter(ctx context.Context, redisURL string, maxAttempts int, lockout time.Duration) (*RedisLoginLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf(errParseRedisURLFmt, err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf(errPingRedisFmt, err)
	}

	return NewRedisLoginLimiterWithClient(client, maxAttempts, lockout), nil
}

func NewRedisLoginLimiterWithClient(client *redis.Client, maxAttempts int, lockout time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client, maxAttempts: int64(maxAttempts), lockout: lockout}
}

func (l *RedisLoginLimiter) IsLocked(ctx context.Context, username string) (bool, error) {
	_, err := l.client.Get(ctx, lockKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, username string) (bool, error) {
	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, failureKey(username))
	pipe.Expire(ctx, failureKey(username), l.lockout)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if incr.Val() < l.maxAttempts {
		return false, nil
	}
	if err := l.client.Set(ctx, lockKey(username), lockValue, l.lockout).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (l *RedisLoginLimiter) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, failureKey(username), lockKey(username)).Err()
}

func (l *RedisLoginLimiter) Close() error {
	return l.client.Close()
}

func failureKey(username string) string {
	return failureKeyPrefix + normalizeUsername(username)
}

func lockKey(username string) string {
	return lockKeyPrefix + normalizeUsername(username)
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
