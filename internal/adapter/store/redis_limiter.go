package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window request quota per client.
type RedisLimiter struct {
	client *redis.Client
	limit  int // Max requests per window
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	key := r.key(clientKey)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	// First hit in this window owns the expiry.
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}

func (r *RedisLimiter) key(clientKey string) string {
	bucket := r.now().UnixNano() / int64(r.window)
	return "quota:" + clientKey + ":" + strconv.FormatInt(bucket, 10)
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
