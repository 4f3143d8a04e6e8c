package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared across instances through
// Redis. Each window is one counter key expiring after the window.
type RedisLimiter struct {
	rdb    redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

// NewRedis builds a RedisLimiter. prefix namespaces the counter keys.
func NewRedis(rdb redis.Cmdable, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window}
}

// Allow increments the counter for key in the same round trip as a TTL
// read. A counter with no expiry, whether new or left behind by a failed
// EXPIRE, gets the window TTL so it cannot lock a client out forever.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := "squadlog:rl:" + l.prefix + ":" + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := l.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.TTL(ctx, k)
		return nil
	}); err != nil {
		return false, err
	}

	count := incr.Val()
	if ttl.Val() < 0 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return count <= l.limit, err
		}
	}
	return count <= l.limit, nil
}

// NewRedisClient parses url and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
