package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/repository"
	follow_repository "myblog/internal/repository/follow"
	follow_repository_sqlite "myblog/internal/repository/follow/sqlite"
	post_repository "myblog/internal/repository/post"
	post_repository_sqlite "myblog/internal/repository/post/sqlite"
	user_repository "myblog/internal/repository/user"
	user_repository_sqlite "myblog/internal/repository/user/sqlite"
)

// SQLiteUnitOfWork runs on a single-connection pool: while a transaction is
// open, every repository call must go through it.
type SQLiteUnitOfWork struct {
	db      *sql.DB
	log     *logger.Logger
	metrics metrics.MetricsProvider
}

func NewSQLiteUOW(db *sql.DB, log *logger.Logger, metrics metrics.MetricsProvider) repository.UnitOfWork {
	return &SQLiteUnitOfWork{db: db, log: log, metrics: metrics}
}

func (uow *SQLiteUnitOfWork) Begin(ctx context.Context) (repository.Transaction, error) {
	tx, err := uow.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return &SQLiteTransaction{tx: tx, log: uow.log, metrics: uow.metrics}, nil
}

type SQLiteTransaction struct {
	tx      *sql.Tx
	log     *logger.Logger
	metrics metrics.MetricsProvider
}

func (t *SQLiteTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t *SQLiteTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

func (t *SQLiteTransaction) UserRepository() user_repository.Repository {
	return user_repository_sqlite.NewUserRepository(t.tx, t.log, t.metrics)
}

func (t *SQLiteTransaction) PostRepository() post_repository.Repository {
	return post_repository_sqlite.NewPostRepository(t.tx, t.log, t.metrics)
}

func (t *SQLiteTransaction) FollowRepository() follow_repository.Repository {
	return follow_repository_sqlite.NewFollowRepository(t.tx, t.log, t.metrics)
}
