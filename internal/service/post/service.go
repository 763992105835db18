package post_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository"
	post_repository "myblog/internal/repository/post"
	user_repository "myblog/internal/repository/user"
)

type PostService struct {
	postRepo     post_repository.Repository
	userRepo     user_repository.Repository
	uow          repository.UnitOfWork
	log          *logger.Logger
	metrics      metrics.MetricsProvider
	postsPerPage int
}

func NewPostService(
	postRepo post_repository.Repository,
	userRepo user_repository.Repository,
	uow repository.UnitOfWork,
	log *logger.Logger,
	metrics metrics.MetricsProvider,
	postsPerPage int,
) *PostService {
	if postsPerPage < 1 {
		postsPerPage = 4
	}
	return &PostService{
		postRepo:     postRepo,
		userRepo:     userRepo,
		uow:          uow,
		log:          log,
		metrics:      metrics,
		postsPerPage: postsPerPage,
	}
}

func (s *PostService) CreatePost(ctx context.Context, post *model.CreatePostDTO) (result *model.PostDetailed, err error) {
	defer func() { s.metrics.IncrementPostOperations("create", err == nil) }()

	body := strings.TrimSpace(post.Body)
	if body == "" || utf8.RuneCountInString(body) > model.PostBodyMaxLen {
		return nil, custom_errors.ErrPostValidation
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted && tx != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				s.log.Debug("Transaction rollback", slog.String("error", rollbackErr.Error()))
			}
		}
	}()

	author, err := tx.UserRepository().GetByID(ctx, post.AuthorID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Post author not found", slog.Int64("author_id", post.AuthorID))
		}
		return nil, err
	}

	createdPost, err := tx.PostRepository().Create(ctx, &model.Post{AuthorID: author.ID, Body: body})
	if err != nil {
		s.log.Error("Failed to create post", slog.String("error", err.Error()))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.log.Info("Post created", slog.Int64("post_id", createdPost.ID), slog.Int64("author_id", author.ID))
	return &model.PostDetailed{Post: createdPost, Author: author}, nil
}

func (s *PostService) HomeFeed(ctx context.Context, user *model.User, page int) (*model.Page[*model.PostDetailed], error) {
	return s.listPage(ctx, user.FollowedPosts(), page)
}

func (s *PostService) Explore(ctx context.Context, page int) (*model.Page[*model.PostDetailed], error) {
	return s.listPage(ctx, model.PostFilters{}, page)
}

func (s *PostService) UserPosts(ctx context.Context, username string, page int) (*model.Page[*model.PostDetailed], error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.listPage(ctx, model.PostFilters{AuthorID: &author.ID}, page)
}

func (s *PostService) listPage(ctx context.Context, filters model.PostFilters, page int) (*model.Page[*model.PostDetailed], error) {
	number, limit, offset := model.PageBounds(page, s.postsPerPage)

	posts, total, err := s.postRepo.List(ctx, filters.WithPage(limit, offset))
	if err != nil {
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		return nil, err
	}

	detailed, err := s.withAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}
	return model.NewPage(detailed, number, limit, total), nil
}

func (s *PostService) withAuthors(ctx context.Context, posts []*model.Post) ([]*model.PostDetailed, error) {
	ids := make([]int64, 0, len(posts))
	seen := make(map[int64]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}

	authors, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to load post authors", slog.String("error", err.Error()))
		return nil, err
	}

	result := make([]*model.PostDetailed, 0, len(posts))
	for _, p := range posts {
		result = append(result, &model.PostDetailed{Post: p, Author: authors[p.AuthorID]})
	}
	return result, nil
}
