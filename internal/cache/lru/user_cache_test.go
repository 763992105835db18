package lru

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
)

func TestUserCache(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(2, time.Minute, logger.New("test"), metrics.Noop{})

	about := "hi"
	john := &model.User{ID: 1, Username: "john", PasswordHash: "hash", AboutMe: &about}
	require.NoError(t, c.SetUser(ctx, john))

	got, err := c.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "john", got.Username)
	assert.Empty(t, got.PasswordHash)

	about = "changed"
	got, err = c.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "hi", *got.AboutMe)

	require.NoError(t, c.DeleteUser(ctx, 1))
	_, err = c.GetUser(ctx, 1)
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)
}

func TestUserCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(2, time.Minute, logger.New("test"), metrics.Noop{})
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, c.SetUser(ctx, &model.User{ID: id}))
	}

	_, err := c.GetUser(ctx, 1)
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)
	_, err = c.GetUser(ctx, 3)
	assert.NoError(t, err)
}
