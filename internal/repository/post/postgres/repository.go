package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository/postgres/db"
)

const foreignKeyViolation = "23503"

type PostRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewPostRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	if err := row.Scan(&post.ID, &post.AuthorID, &post.Body, &post.CreatedAt); err != nil {
		return nil, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return &post, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()

	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	args := pgx.NamedArgs{
		"user_id":    post.AuthorID,
		"body":       post.Body,
		"created_at": createdAt.UTC(),
	}
	query := `
		INSERT INTO posts (user_id, body, created_at)
		VALUES (@user_id, @body, @created_at)
		RETURNING id, user_id, body, created_at`

	createdPost, err := scanPost(p.db.QueryRow(ctx, query, args))
	if err != nil {
		p.observe("post_create", start, false)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			p.log.Debug("Post author does not exist", slog.Int64("author_id", post.AuthorID))
			return nil, custom_errors.ErrUserNotFound
		}
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_create", start, true)
	return createdPost, nil
}

// filterClause turns filters into the FROM/JOIN/WHERE tail shared by List and count.
func filterClause(filters model.PostFilters) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	clause := ` FROM posts p`
	whereClauses := []string{}

	if filters.FollowedBy != nil {
		clause += ` JOIN followers f ON f.followed_id = p.user_id`
		whereClauses = append(whereClauses, "f.follower_id = @follower_id")
		args["follower_id"] = *filters.FollowedBy
	}
	if filters.AuthorID != nil {
		whereClauses = append(whereClauses, "p.user_id = @author_id")
		args["author_id"] = *filters.AuthorID
	}
	if len(whereClauses) > 0 {
		clause += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	return clause, args
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	start := time.Now()
	clause, args := filterClause(filters)
	query := `SELECT p.id, p.user_id, p.body, p.created_at, COUNT(*) OVER() AS total_count` + clause +
		` ORDER BY p.created_at DESC, p.id DESC`

	if filters.Limit != nil {
		query += " LIMIT @limit"
		args["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		args["offset"] = *filters.Offset
	}

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	total := 0
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Body, &post.CreatedAt, &total); err != nil {
			p.observe("post_list", start, false)
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseScan
		}
		post.CreatedAt = post.CreatedAt.UTC()
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	// A page past the end carries no window count.
	if len(posts) == 0 && filters.Offset != nil && *filters.Offset > 0 {
		countClause, countArgs := filterClause(filters)
		if err := p.db.QueryRow(ctx, `SELECT COUNT(*)`+countClause, countArgs).Scan(&total); err != nil {
			p.observe("post_list", start, false)
			p.log.Error("Error counting posts", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseQuery
		}
	}

	p.observe("post_list", start, true)
	return posts, total, nil
}
