package user_service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/model"
	cache_mock "myblog/mocks/cache"
)

func TestUserServiceCacheDecorator_GetUserByID(t *testing.T) {
	tests := []struct {
		name  string
		mocks func(c *cache_mock.UserCache, john *model.User)
	}{
		{
			name: "Cache hit",
			mocks: func(c *cache_mock.UserCache, john *model.User) {
				c.On("GetUser", mock.Anything, john.ID).Return(&model.User{ID: john.ID, Username: "cached"}, nil)
			},
		},
		{
			name: "Cache miss loads and stores",
			mocks: func(c *cache_mock.UserCache, john *model.User) {
				c.On("GetUser", mock.Anything, john.ID).Return(nil, custom_errors.ErrCacheMiss)
				c.On("SetUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.ID == john.ID })).Return(nil)
			},
		},
		{
			name: "Cache failure falls back to store",
			mocks: func(c *cache_mock.UserCache, john *model.User) {
				c.On("GetUser", mock.Anything, john.ID).Return(nil, errors.New("redis down"))
				c.On("SetUser", mock.Anything, mock.Anything).Return(errors.New("redis down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, _ := setupService(t)
			john := register(t, inner, "john")
			userCache := cache_mock.NewUserCache(t)
			tt.mocks(userCache, john)

			d := NewUserServiceCacheDecorator(inner, userCache, logger.New("test"))
			got, err := d.GetUserByID(context.Background(), john.ID)
			require.NoError(t, err)
			assert.Equal(t, john.ID, got.ID)
		})
	}
}

func TestUserServiceCacheDecorator_WritesThrough(t *testing.T) {
	ctx := context.Background()
	inner, _ := setupService(t)
	john := register(t, inner, "john")
	userCache := cache_mock.NewUserCache(t)
	userCache.On("SetUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Username == "johnny" })).Return(nil).Once()
	userCache.On("SetUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.LastSeen != nil })).Return(nil).Once()

	d := NewUserServiceCacheDecorator(inner, userCache, logger.New("test"))
	_, err := d.UpdateProfile(ctx, john.ID, &model.UpdateProfileDTO{Username: "johnny"})
	require.NoError(t, err)
	require.NoError(t, d.TouchLastSeen(ctx, john))
}

func TestUserServiceCacheDecorator_TouchLastSeen_UnknownUserInvalidates(t *testing.T) {
	inner, _ := setupService(t)
	userCache := cache_mock.NewUserCache(t)
	userCache.On("DeleteUser", mock.Anything, int64(42)).Return(nil)

	d := NewUserServiceCacheDecorator(inner, userCache, logger.New("test"))
	err := d.TouchLastSeen(context.Background(), &model.User{ID: 42})
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}

var _ Service = (*UserService)(nil)
