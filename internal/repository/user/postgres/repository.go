package user_repository_postgres

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
)

const (
	uniqueViolation = "23505"

	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"

	userColumns = `id, username, email, password_hash, about_me, last_seen, created_at`
)

type UserRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewUserRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (r *UserRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

// ScanUser reads the columns listed in userColumns, in that order.
func ScanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.AboutMe,
		&user.LastSeen,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	if user.LastSeen != nil {
		seen := user.LastSeen.UTC()
		user.LastSeen = &seen
	}
	return &user, nil
}

// uniqueError maps a unique-constraint violation to the matching sentinel.
func uniqueError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case usernameConstraint:
		return custom_errors.ErrUsernameTaken
	case emailConstraint:
		return custom_errors.ErrEmailTaken
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()
	r.log.Debug("Creating new user", slog.String("username", user.Username))

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	args := pgx.NamedArgs{
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"about_me":      user.AboutMe,
		"created_at":    createdAt,
	}
	query := `
		INSERT INTO users (username, email, password_hash, about_me, created_at)
		VALUES (@username, @email, @password_hash, @about_me, @created_at)
		RETURNING ` + userColumns

	created, err := ScanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe("user_create", start, false)
		if mapped := uniqueError(err); mapped != nil {
			r.log.Debug("Duplicate user rejected by store", slog.String("username", user.Username), slog.String("error", mapped.Error()))
			return nil, mapped
		}
		r.log.Error("Error creating user", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("user_create", start, true)
	r.log.Debug("Successfully created user", slog.Int64("id", created.ID))
	return created, nil
}

func (r *UserRepository) getOne(ctx context.Context, queryType, where string, args pgx.NamedArgs) (*model.User, error) {
	start := time.Now()
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user, err := ScanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("User not found", slog.String("query", queryType))
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error getting user", slog.String("query", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	r.observe(queryType, start, true)
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_id", "id = @id", pgx.NamedArgs{"id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_username", "username = @username", pgx.NamedArgs{"username": username})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_email", "email = @email", pgx.NamedArgs{"email": email})
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	start := time.Now()
	result := make(map[int64]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY(@ids)`
	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"ids": ids})
	if err != nil {
		r.observe("user_get_by_ids", start, false)
		r.log.Error("Error getting users by ids", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	for rows.Next() {
		user, err := ScanUser(rows)
		if err != nil {
			r.observe("user_get_by_ids", start, false)
			r.log.Error("Error scanning user during GetByIDs", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		result[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		r.observe("user_get_by_ids", start, false)
		r.log.Error("Error iterating rows during GetByIDs", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("user_get_by_ids", start, true)
	return result, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error) {
	start := time.Now()
	r.log.Debug("Updating user profile", slog.Int64("id", id))

	args := pgx.NamedArgs{
		"id":       id,
		"username": update.Username,
		"about_me": update.AboutMe,
	}
	query := `UPDATE users SET username = @username, about_me = @about_me
				WHERE id = @id RETURNING ` + userColumns

	user, err := ScanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe("user_update_profile", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_errors.ErrUserNotFound
		}
		if mapped := uniqueError(err); mapped != nil {
			return nil, mapped
		}
		r.log.Error("Error updating user profile", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("user_update_profile", start, true)
	return user, nil
}

func (r *UserRepository) exec(ctx context.Context, queryType, query string, args pgx.NamedArgs) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, query, args)
	if err != nil {
		r.observe(queryType, start, false)
		r.log.Error("Error updating user", slog.String("query", queryType), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		r.observe(queryType, start, false)
		return custom_errors.ErrUserNotFound
	}
	r.observe(queryType, start, true)
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, "user_update_password",
		`UPDATE users SET password_hash = @password_hash WHERE id = @id`,
		pgx.NamedArgs{"id": id, "password_hash": passwordHash})
}

func (r *UserRepository) UpdateLastSeen(ctx context.Context, id int64, seen time.Time) error {
	return r.exec(ctx, "user_update_last_seen",
		`UPDATE users SET last_seen = @last_seen WHERE id = @id`,
		pgx.NamedArgs{"id": id, "last_seen": seen.UTC()})
}
