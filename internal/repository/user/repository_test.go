package user_repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/model"
	user_repository "myblog/internal/repository/user"
	"myblog/internal/repository/user/memory"
)

func setupUserTest(t *testing.T) user_repository.Repository {
	repo := memory.NewUserRepository(logger.New("test"))
	_, err := repo.Create(context.Background(), &model.User{Username: "john", Email: "john@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	return repo
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.User
		wantErr error
	}{
		{name: "new user", user: &model.User{Username: "susan", Email: "susan@example.com"}},
		{name: "duplicate username", user: &model.User{Username: "john", Email: "other@example.com"}, wantErr: custom_errors.ErrUsernameTaken},
		{name: "duplicate email", user: &model.User{Username: "johnny", Email: "john@example.com"}, wantErr: custom_errors.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupUserTest(t)
			got, err := repo.Create(context.Background(), tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := setupUserTest(t)

	byName, err := repo.GetByUsername(ctx, "john")
	require.NoError(t, err)
	byEmail, err := repo.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	byID, err := repo.GetByID(ctx, byName.ID)
	require.NoError(t, err)
	assert.Equal(t, byName, byEmail)
	assert.Equal(t, byName, byID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)

	found, err := repo.GetByIDs(ctx, []int64{byName.ID, 42})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, byName.ID)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	about := "hi there"

	tests := []struct {
		name    string
		update  *model.UpdateProfileDTO
		wantErr error
	}{
		{name: "rename and about", update: &model.UpdateProfileDTO{Username: "johnny", AboutMe: &about}},
		{name: "keep own username", update: &model.UpdateProfileDTO{Username: "john"}},
		{name: "taken username", update: &model.UpdateProfileDTO{Username: "susan"}, wantErr: custom_errors.ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupUserTest(t)
			_, err := repo.Create(ctx, &model.User{Username: "susan", Email: "susan@example.com"})
			require.NoError(t, err)
			john, err := repo.GetByUsername(ctx, "john")
			require.NoError(t, err)

			got, err := repo.UpdateProfile(ctx, john.ID, tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.update.Username, got.Username)
			assert.Equal(t, tt.update.AboutMe, got.AboutMe)
		})
	}
}

func TestUserRepository_UpdateLastSeenAndPassword(t *testing.T) {
	ctx := context.Background()
	repo := setupUserTest(t)
	john, err := repo.GetByUsername(ctx, "john")
	require.NoError(t, err)

	seen := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	require.NoError(t, repo.UpdateLastSeen(ctx, john.ID, seen))
	require.NoError(t, repo.UpdatePassword(ctx, john.ID, "new-hash"))

	got, err := repo.GetByID(ctx, john.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSeen)
	assert.Equal(t, time.UTC, got.LastSeen.Location())
	assert.True(t, seen.Equal(*got.LastSeen))
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, repo.UpdateLastSeen(ctx, 42, seen), custom_errors.ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, 42, "x"), custom_errors.ErrUserNotFound)
}
