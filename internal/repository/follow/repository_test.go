package follow_repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/model"
	"myblog/internal/repository/memory"
)

func setupFollowTest(t *testing.T) (*memory.Store, *model.User, *model.User, *model.User) {
	store := memory.NewStore(logger.New("test"))
	var users []*model.User
	for _, name := range []string{"john", "susan", "mary"} {
		u, err := store.Users.Create(context.Background(), &model.User{Username: name, Email: name + "@example.com"})
		require.NoError(t, err)
		users = append(users, u)
	}
	return store, users[0], users[1], users[2]
}

func TestFollowRepository_Follow(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		follower   func(a, b *model.User) int64
		followed   func(a, b *model.User) int64
		wantErr    error
		wantFollow bool
	}{
		{
			name:       "follow another user",
			follower:   func(a, _ *model.User) int64 { return a.ID },
			followed:   func(_, b *model.User) int64 { return b.ID },
			wantFollow: true,
		},
		{
			name:     "follow self",
			follower: func(a, _ *model.User) int64 { return a.ID },
			followed: func(a, _ *model.User) int64 { return a.ID },
			wantErr:  custom_errors.ErrCannotFollowSelf,
		},
		{
			name:     "unknown target",
			follower: func(a, _ *model.User) int64 { return a.ID },
			followed: func(_, _ *model.User) int64 { return 999 },
			wantErr:  custom_errors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, john, susan, _ := setupFollowTest(t)
			follower, followed := tt.follower(john, susan), tt.followed(john, susan)

			err := store.Follows.Follow(ctx, follower, followed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			ok, err := store.Follows.IsFollowing(ctx, follower, followed)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFollow, ok)
			reverse, err := store.Follows.IsFollowing(ctx, followed, follower)
			require.NoError(t, err)
			assert.False(t, reverse)
		})
	}
}

func TestFollowRepository_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, john, susan, _ := setupFollowTest(t)

	require.NoError(t, store.Follows.Follow(ctx, john.ID, susan.ID))
	require.NoError(t, store.Follows.Follow(ctx, john.ID, susan.ID))

	followers, err := store.Follows.CountFollowers(ctx, susan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, followers)

	require.NoError(t, store.Follows.Unfollow(ctx, john.ID, susan.ID))
	require.NoError(t, store.Follows.Unfollow(ctx, john.ID, susan.ID))
	ok, err := store.Follows.IsFollowing(ctx, john.ID, susan.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowRepository_CountsAndLists(t *testing.T) {
	ctx := context.Background()
	store, john, susan, mary := setupFollowTest(t)

	require.NoError(t, store.Follows.Follow(ctx, susan.ID, john.ID))
	require.NoError(t, store.Follows.Follow(ctx, mary.ID, john.ID))
	require.NoError(t, store.Follows.Follow(ctx, john.ID, mary.ID))

	followers, err := store.Follows.CountFollowers(ctx, john.ID)
	require.NoError(t, err)
	followed, err := store.Follows.CountFollowed(ctx, john.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, followers)
	assert.Equal(t, 1, followed)

	list, err := store.Follows.ListFollowers(ctx, john.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mary", list[0].Username)
	assert.Equal(t, "susan", list[1].Username)

	list, err = store.Follows.ListFollowed(ctx, john.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mary", list[0].Username)
}
