package repository

import (
	"context"

	follow_repository "myblog/internal/repository/follow"
	post_repository "myblog/internal/repository/post"
	user_repository "myblog/internal/repository/user"
)

//go:generate mockery --name UnitOfWork --dir . --output ../../mocks/repository --outpkg mocks --filename UnitOfWork.go
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction hands out repositories bound to one store transaction. Nothing
// is visible to other callers until Commit.
//
//go:generate mockery --name Transaction --dir . --output ../../mocks/repository --outpkg mocks --filename Transaction.go
type Transaction interface {
	UserRepository() user_repository.Repository
	PostRepository() post_repository.Repository
	FollowRepository() follow_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
