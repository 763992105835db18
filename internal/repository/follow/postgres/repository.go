package follow_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository/postgres/db"
	user_repository_postgres "myblog/internal/repository/user/postgres"
)

const (
	foreignKeyViolation = "23503"
	checkViolation      = "23514"

	joinedUserColumns = `u.id, u.username, u.email, u.password_hash, u.about_me, u.last_seen, u.created_at`
)

type FollowRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewFollowRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *FollowRepository {
	return &FollowRepository{db: db, log: log, metrics: metrics}
}

func (r *FollowRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"follower_id": followerID, "followed_id": followedID}
	query := `INSERT INTO followers (follower_id, followed_id)
				VALUES (@follower_id, @followed_id)
				ON CONFLICT (follower_id, followed_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, args); err != nil {
		r.observe("follow_insert", start, false)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case foreignKeyViolation:
				return custom_errors.ErrUserNotFound
			case checkViolation:
				return custom_errors.ErrCannotFollowSelf
			}
		}
		r.log.Error("Error inserting follow edge", slog.Int64("follower_id", followerID), slog.Int64("followed_id", followedID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	r.observe("follow_insert", start, true)
	return nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"follower_id": followerID, "followed_id": followedID}
	query := `DELETE FROM followers WHERE follower_id = @follower_id AND followed_id = @followed_id`

	if _, err := r.db.Exec(ctx, query, args); err != nil {
		r.observe("follow_delete", start, false)
		r.log.Error("Error deleting follow edge", slog.Int64("follower_id", followerID), slog.Int64("followed_id", followedID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	r.observe("follow_delete", start, true)
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	start := time.Now()
	args := pgx.NamedArgs{"follower_id": followerID, "followed_id": followedID}
	query := `SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = @follower_id AND followed_id = @followed_id)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, args).Scan(&exists); err != nil {
		r.observe("follow_exists", start, false)
		r.log.Error("Error checking follow edge", slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}

	r.observe("follow_exists", start, true)
	return exists, nil
}

func (r *FollowRepository) count(ctx context.Context, queryType, column string, userID int64) (int, error) {
	start := time.Now()
	var total int
	query := `SELECT COUNT(*) FROM followers WHERE ` + column + ` = @user_id`
	if err := r.db.QueryRow(ctx, query, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		r.observe(queryType, start, false)
		r.log.Error("Error counting follow edges", slog.String("query", queryType), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}
	r.observe(queryType, start, true)
	return total, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, "follow_count_followers", "followed_id", userID)
}

func (r *FollowRepository) CountFollowed(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, "follow_count_followed", "follower_id", userID)
}

// list joins users on joinColumn and filters edges on matchColumn.
func (r *FollowRepository) list(ctx context.Context, queryType, joinColumn, matchColumn string, userID int64) ([]*model.User, error) {
	start := time.Now()
	query := `SELECT ` + joinedUserColumns + ` FROM users u
				JOIN followers f ON f.` + joinColumn + ` = u.id
				WHERE f.` + matchColumn + ` = @user_id
				ORDER BY u.username`

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		r.observe(queryType, start, false)
		r.log.Error("Error listing follow edges", slog.String("query", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := user_repository_postgres.ScanUser(rows)
		if err != nil {
			r.observe(queryType, start, false)
			r.log.Error("Error scanning user", slog.String("query", queryType), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		r.observe(queryType, start, false)
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe(queryType, start, true)
	return users, nil
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID int64) ([]*model.User, error) {
	return r.list(ctx, "follow_list_followers", "follower_id", "followed_id", userID)
}

func (r *FollowRepository) ListFollowed(ctx context.Context, userID int64) ([]*model.User, error) {
	return r.list(ctx, "follow_list_followed", "followed_id", "follower_id", userID)
}
