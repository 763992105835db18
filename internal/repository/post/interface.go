package post_repository

import (
	"context"

	"myblog/internal/model"
)

//go:generate mockery --name Repository --dir . --output ../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	// List executes filters newest first and returns one page together with
	// the total number of matching posts.
	List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error)
}
