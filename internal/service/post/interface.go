package post_service

import (
	"context"

	"myblog/internal/model"
)

type Service interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.PostDetailed, error)
	// HomeFeed pages through the posts of everyone user follows.
	HomeFeed(ctx context.Context, user *model.User, page int) (*model.Page[*model.PostDetailed], error)
	Explore(ctx context.Context, page int) (*model.Page[*model.PostDetailed], error)
	UserPosts(ctx context.Context, username string, page int) (*model.Page[*model.PostDetailed], error)
}
