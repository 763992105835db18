package user_repository_sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository/sqlite/db"
)

const userColumns = `id, username, email, password_hash, about_me, last_seen, created_at`

type UserRepository struct {
	log     *logger.Logger
	db      db.DBTX
	metrics metrics.MetricsProvider
}

func NewUserRepository(db db.DBTX, log *logger.Logger, metrics metrics.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (r *UserRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

type Scanner interface {
	Scan(dest ...any) error
}

// ScanUser reads the columns listed in userColumns, in that order.
func ScanUser(row Scanner) (*model.User, error) {
	var (
		user      model.User
		aboutMe   sql.NullString
		lastSeen  sql.NullInt64
		createdAt int64
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &aboutMe, &lastSeen, &createdAt); err != nil {
		return nil, err
	}
	if aboutMe.Valid {
		user.AboutMe = &aboutMe.String
	}
	if lastSeen.Valid {
		seen := db.FromUnix(lastSeen.Int64)
		user.LastSeen = &seen
	}
	user.CreatedAt = db.FromUnix(createdAt)
	return &user, nil
}

func uniqueError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "users.username"):
		return custom_errors.ErrUsernameTaken
	case db.IsUniqueViolation(err, "users.email"):
		return custom_errors.ErrEmailTaken
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()
	r.log.Debug("Creating new user", slog.String("username", user.Username))

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO users (username, email, password_hash, about_me, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING ` + userColumns
	created, err := ScanUser(r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, nullString(user.AboutMe), db.ToUnix(createdAt)))
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
	return created, nil
}

func (r *UserRepository) getOne(ctx context.Context, queryType, where string, arg any) (*model.User, error) {
	start := time.Now()
	user, err := ScanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		r.observe(queryType, start, false)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error getting user", slog.String("query", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	r.observe(queryType, start, true)
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_id", "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_username", "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_email", "email = ?", email)
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	start := time.Now()
	result := make(map[int64]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders+`)`, args...)
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
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("user_get_by_ids", start, true)
	return result, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error) {
	start := time.Now()
	query := `UPDATE users SET username = ?, about_me = ? WHERE id = ? RETURNING ` + userColumns

	user, err := ScanUser(r.db.QueryRowContext(ctx, query, update.Username, nullString(update.AboutMe), id))
	if err != nil {
		r.observe("user_update_profile", start, false)
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *UserRepository) exec(ctx context.Context, queryType, query string, args ...any) error {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.observe(queryType, start, false)
		r.log.Error("Error updating user", slog.String("query", queryType), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		r.observe(queryType, start, false)
		return custom_errors.ErrUserNotFound
	}
	r.observe(queryType, start, true)
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, "user_update_password", `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
}

func (r *UserRepository) UpdateLastSeen(ctx context.Context, id int64, seen time.Time) error {
	return r.exec(ctx, "user_update_last_seen", `UPDATE users SET last_seen = ? WHERE id = ?`, db.ToUnix(seen), id)
}
