package user_service

import (
	"context"

	"myblog/internal/model"
)

type Service interface {
	Register(ctx context.Context, dto *model.RegisterUserDTO) (*model.User, error)
	// Authenticate returns ErrInvalidCredentials for an unknown username and
	// for a wrong password alike.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, dto *model.UpdateProfileDTO) (*model.User, error)
	TouchLastSeen(ctx context.Context, user *model.User) error

	Follow(ctx context.Context, followerID int64, username string) (*model.User, error)
	Unfollow(ctx context.Context, followerID int64, username string) (*model.User, error)
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	FollowStats(ctx context.Context, userID int64) (*model.FollowStats, error)
	Followers(ctx context.Context, userID int64) ([]*model.User, error)
	Followed(ctx context.Context, userID int64) ([]*model.User, error)
}
