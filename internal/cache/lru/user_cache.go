package lru

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
)

// UserCache is an in-process, size bounded user cache with per entry expiry.
// Like the redis cache it never holds password hashes.
type UserCache struct {
	users   *expirable.LRU[int64, model.User]
	log     *logger.Logger
	metrics metrics.MetricsProvider
}

func NewUserCache(size int, ttl time.Duration, log *logger.Logger, metrics metrics.MetricsProvider) *UserCache {
	if size < 1 {
		size = 1024
	}
	return &UserCache{
		users:   expirable.NewLRU[int64, model.User](size, nil, ttl),
		log:     log,
		metrics: metrics,
	}
}

func (c *UserCache) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	start := time.Now()
	defer func() { c.metrics.RecordCacheOperationDuration("user_get", time.Since(start)) }()

	user, ok := c.users.Get(userID)
	if !ok {
		c.metrics.IncrementCacheMisses()
		return nil, custom_errors.ErrCacheMiss
	}
	c.metrics.IncrementCacheHits()
	return &user, nil
}

func (c *UserCache) SetUser(ctx context.Context, user *model.User) error {
	start := time.Now()
	defer func() { c.metrics.RecordCacheOperationDuration("user_set", time.Since(start)) }()

	stored := *user
	stored.PasswordHash = ""
	if user.AboutMe != nil {
		about := *user.AboutMe
		stored.AboutMe = &about
	}
	if user.LastSeen != nil {
		seen := *user.LastSeen
		stored.LastSeen = &seen
	}
	c.users.Add(user.ID, stored)
	c.log.Debug("User cached in memory", slog.Int64("user_id", user.ID))
	return nil
}

func (c *UserCache) DeleteUser(ctx context.Context, userID int64) error {
	c.users.Remove(userID)
	return nil
}
