package memory

import (
	"context"

	"myblog/internal/logger"
	"myblog/internal/repository"
	follow_repository "myblog/internal/repository/follow"
	follow_memory "myblog/internal/repository/follow/memory"
	post_repository "myblog/internal/repository/post"
	post_memory "myblog/internal/repository/post/memory"
	user_repository "myblog/internal/repository/user"
	user_memory "myblog/internal/repository/user/memory"
)

// Store wires the in-memory repositories together. Its transactions write
// straight through: Rollback does not undo anything.
type Store struct {
	Users   *user_memory.UserRepository
	Posts   *post_memory.PostRepository
	Follows *follow_memory.FollowRepository
}

func NewStore(log *logger.Logger) *Store {
	users := user_memory.NewUserRepository(log)
	follows := follow_memory.NewFollowRepository(log, users)
	return &Store{
		Users:   users,
		Posts:   post_memory.NewPostRepository(log, follows),
		Follows: follows,
	}
}

func (s *Store) Begin(ctx context.Context) (repository.Transaction, error) {
	return &Transaction{store: s}, nil
}

type Transaction struct {
	store *Store
}

var _ repository.UnitOfWork = (*Store)(nil)

func (t *Transaction) UserRepository() user_repository.Repository     { return t.store.Users }
func (t *Transaction) PostRepository() post_repository.Repository     { return t.store.Posts }
func (t *Transaction) FollowRepository() follow_repository.Repository { return t.store.Follows }
func (t *Transaction) Commit(ctx context.Context) error               { return nil }
func (t *Transaction) Rollback(ctx context.Context) error             { return nil }
