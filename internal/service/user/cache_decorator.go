package user_service

import (
	"context"
	"errors"
	"log/slog"

	"myblog/internal/cache"
	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/model"
)

// UserServiceCacheDecorator serves GetUserByID from the user cache. The
// session middleware resolves the current user on every request through it.
type UserServiceCacheDecorator struct {
	Service
	userCache cache.UserCache
	log       *logger.Logger
}

func NewUserServiceCacheDecorator(
	service Service,
	userCache cache.UserCache,
	log *logger.Logger,
) Service {
	return &UserServiceCacheDecorator{
		Service:   service,
		userCache: userCache,
		log:       log,
	}
}

func (d *UserServiceCacheDecorator) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	cached, err := d.userCache.GetUser(ctx, id)
	if err == nil {
		d.log.Debug("User found in cache", slog.Int64("user_id", id))
		return cached, nil
	}
	if !errors.Is(err, custom_errors.ErrCacheMiss) {
		d.log.Warn("Failed to get user from cache",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()))
	}

	user, err := d.Service.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.store(ctx, user)
	return user, nil
}

func (d *UserServiceCacheDecorator) UpdateProfile(ctx context.Context, userID int64, dto *model.UpdateProfileDTO) (*model.User, error) {
	user, err := d.Service.UpdateProfile(ctx, userID, dto)
	if err != nil {
		return nil, err
	}
	d.store(ctx, user)
	return user, nil
}

func (d *UserServiceCacheDecorator) TouchLastSeen(ctx context.Context, user *model.User) error {
	if err := d.Service.TouchLastSeen(ctx, user); err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			d.invalidate(ctx, user.ID)
		}
		return err
	}
	d.store(ctx, user)
	return nil
}

func (d *UserServiceCacheDecorator) store(ctx context.Context, user *model.User) {
	if err := d.userCache.SetUser(ctx, user); err != nil {
		d.log.Warn("Failed to cache user",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()))
	}
}

func (d *UserServiceCacheDecorator) invalidate(ctx context.Context, userID int64) {
	if err := d.userCache.DeleteUser(ctx, userID); err != nil {
		d.log.Warn("Failed to invalidate user cache",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
	}
}
