package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
)

const (
	userCacheKeyPrefix = "user:"
	userCacheTTL       = 15 * time.Minute
)

// UserCache stores users without their password hash; the JSON form of
// model.User omits it.
type UserCache struct {
	client  *Client
	log     *logger.Logger
	metrics metrics.MetricsProvider
}

func NewUserCache(client *Client, log *logger.Logger, metrics metrics.MetricsProvider) *UserCache {
	return &UserCache{
		client:  client,
		log:     log,
		metrics: metrics,
	}
}

func (u *UserCache) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	key := u.getUserKey(userID)
	start := time.Now()
	defer func() { u.metrics.RecordCacheOperationDuration("user_get", time.Since(start)) }()

	var user model.User
	err := u.client.Get(ctx, key, &user)
	if err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			u.log.Debug("User cache miss", slog.Int64("user_id", userID))
			u.metrics.IncrementCacheMisses()
			return nil, custom_errors.ErrCacheMiss
		}
		u.log.Error("Failed to get user from cache",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	u.metrics.IncrementCacheHits()
	u.log.Debug("User cache hit", slog.Int64("user_id", userID))
	return &user, nil
}

func (u *UserCache) SetUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}

	key := u.getUserKey(user.ID)
	start := time.Now()
	defer func() { u.metrics.RecordCacheOperationDuration("user_set", time.Since(start)) }()

	if err := u.client.Set(ctx, key, user, userCacheTTL); err != nil {
		u.log.Error("Failed to set user cache",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to set user cache: %w", err)
	}

	u.log.Debug("User cached successfully",
		slog.Int64("user_id", user.ID),
		slog.Duration("ttl", userCacheTTL))
	return nil
}

func (u *UserCache) DeleteUser(ctx context.Context, userID int64) error {
	key := u.getUserKey(userID)
	start := time.Now()
	defer func() { u.metrics.RecordCacheOperationDuration("user_delete", time.Since(start)) }()

	if err := u.client.Delete(ctx, key); err != nil {
		u.log.Error("Failed to delete user from cache",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}

	u.log.Debug("User deleted from cache", slog.Int64("user_id", userID))
	return nil
}

func (u *UserCache) getUserKey(userID int64) string {
	return userCacheKeyPrefix + strconv.FormatInt(userID, 10)
}
