package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Counter is the subset of the Redis client the limiter needs.
type Counter interface {
	Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// Limiter is a fixed-window request counter backed by Redis.
type Limiter struct {
	rdb    Counter
	limit  int
	window time.Duration
}

// New returns a limiter allowing limit requests per window and key.
// A limit of zero disables limiting.
func New(rdb Counter, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow counts one request for key and reports whether it is within the limit.
//
// INCR and EXPIRE NX travel in one pipeline on every call, so a key whose TTL
// was never set gets one on its next hit and the window start is never moved.
// EXPIRE NX needs Redis 7.0 or newer.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	k := keyPrefix + key

	var incr *redis.IntCmd
	var expire *redis.BoolCmd
	_, err := l.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		expire = pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if incr == nil {
		return true, fmt.Errorf("ratelimit pipeline: %w", err)
	}

	n, err := incr.Result()
	if err != nil {
		return true, fmt.Errorf("ratelimit incr: %w", err)
	}
	allowed := n <= int64(l.limit)
	if err := expire.Err(); err != nil {
		return allowed, fmt.Errorf("ratelimit expire: %w", err)
	}
	return allowed, nil
}
