package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(rdb, limit, window)
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	frozen := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return frozen }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d", i+1)
	}

	allowed, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other clients have their own window.
	allowed, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_SetsExpiryOnFirstHit(t *testing.T) {
	l, mr := newTestLimiter(t, 5, 30*time.Second)
	frozen := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return frozen }

	_, err := l.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)

	key := l.key("1.2.3.4")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 30*time.Second, mr.TTL(key))
}

func TestRedisLimiter_NewWindowResets(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "c")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "c")
	require.NoError(t, err)
	require.False(t, allowed)

	now = now.Add(time.Minute)
	allowed, err = l.Allow(ctx, "c")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_StoreDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "c")
	require.Error(t, err)
}
