package follow_repository

import (
	"context"

	"myblog/internal/model"
)

//go:generate mockery --name Repository --dir . --output ../../../mocks/follow --outpkg mocks --filename FollowRepository.go
type Repository interface {
	// Follow inserts the edge; an existing edge is left as is.
	Follow(ctx context.Context, followerID, followedID int64) error
	// Unfollow removes the edge; a missing edge is not an error.
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowed(ctx context.Context, userID int64) (int, error)
	// ListFollowers and ListFollowed are ordered by username.
	ListFollowers(ctx context.Context, userID int64) ([]*model.User, error)
	ListFollowed(ctx context.Context, userID int64) ([]*model.User, error)
}
