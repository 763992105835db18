package post_repository_sqlite

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository/sqlite/db"
)

type PostRepository struct {
	log     *logger.Logger
	db      db.DBTX
	metrics metrics.MetricsProvider
}

func NewPostRepository(db db.DBTX, log *logger.Logger, metrics metrics.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*model.Post, error) {
	var (
		post      model.Post
		createdAt int64
	)
	if err := row.Scan(&post.ID, &post.AuthorID, &post.Body, &createdAt); err != nil {
		return nil, err
	}
	post.CreatedAt = db.FromUnix(createdAt)
	return &post, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()

	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO posts (user_id, body, created_at) VALUES (?, ?, ?)
		RETURNING id, user_id, body, created_at`
	createdPost, err := scanPost(p.db.QueryRowContext(ctx, query, post.AuthorID, post.Body, db.ToUnix(createdAt)))
	if err != nil {
		p.observe("post_create", start, false)
		if db.IsForeignKeyViolation(err) {
			p.log.Debug("Post author does not exist", slog.Int64("author_id", post.AuthorID))
			return nil, custom_errors.ErrUserNotFound
		}
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_create", start, true)
	return createdPost, nil
}

func filterClause(filters model.PostFilters) (string, []any) {
	var args []any
	clause := ` FROM posts p`
	whereClauses := []string{}

	if filters.FollowedBy != nil {
		clause += ` JOIN followers f ON f.followed_id = p.user_id`
		whereClauses = append(whereClauses, "f.follower_id = ?")
		args = append(args, *filters.FollowedBy)
	}
	if filters.AuthorID != nil {
		whereClauses = append(whereClauses, "p.user_id = ?")
		args = append(args, *filters.AuthorID)
	}
	if len(whereClauses) > 0 {
		clause += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	return clause, args
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	start := time.Now()
	clause, args := filterClause(filters)

	var total int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*)`+clause, args...).Scan(&total); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	query := `SELECT p.id, p.user_id, p.body, p.created_at` + clause + ` ORDER BY p.created_at DESC, p.id DESC`
	// sqlite only accepts OFFSET after a LIMIT; -1 means no limit.
	if filters.Limit != nil || filters.Offset != nil {
		limit, offset := -1, 0
		if filters.Limit != nil {
			limit = *filters.Limit
		}
		if filters.Offset != nil {
			offset = *filters.Offset
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			p.observe("post_list", start, false)
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseScan
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		p.observe("post_list", start, false)
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_list", start, true)
	return posts, total, nil
}
