package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_cache "myblog/internal/cache/redis"
	"myblog/internal/custom_errors"
	"myblog/internal/logger"
)

// Runs against a real server when MYBLOG_TEST_REDIS_ADDR is set, e.g.
// localhost:6379. Database 15 is flushed before use.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MYBLOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MYBLOG_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.FlushDB(ctx).Err())

	store := NewRedisStore(redis_cache.NewClientFromRedis(rdb, logger.New("test")))

	require.NoError(t, store.Save(ctx, "a", 7, time.Minute))
	require.NoError(t, store.Save(ctx, "b", 8, time.Minute))

	userID, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound)

	ttl, err := rdb.TTL(ctx, sessionKeyPrefix+"b").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
