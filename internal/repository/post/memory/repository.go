package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"myblog/internal/logger"
	"myblog/internal/model"
)

// FollowGraph resolves the FollowedBy filter.
type FollowGraph interface {
	FollowedIDs(ctx context.Context, followerID int64) ([]int64, error)
}

type PostRepository struct {
	log     *logger.Logger
	follows FollowGraph
	mu      sync.RWMutex
	posts   map[int64]*model.Post
	nextID  int64
}

func NewPostRepository(log *logger.Logger, follows FollowGraph) *PostRepository {
	return &PostRepository{
		log:     log,
		follows: follows,
		posts:   make(map[int64]*model.Post),
		nextID:  1,
	}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	newPost := &model.Post{
		ID:        p.nextID,
		AuthorID:  post.AuthorID,
		Body:      post.Body,
		CreatedAt: post.CreatedAt.UTC(),
	}
	if post.CreatedAt.IsZero() {
		newPost.CreatedAt = time.Now().UTC()
	}
	p.nextID++

	p.posts[newPost.ID] = newPost

	result := *newPost
	return &result, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	var authors map[int64]struct{}
	if filters.FollowedBy != nil {
		authors = make(map[int64]struct{})
		if p.follows != nil {
			ids, err := p.follows.FollowedIDs(ctx, *filters.FollowedBy)
			if err != nil {
				return nil, 0, err
			}
			for _, id := range ids {
				authors[id] = struct{}{}
			}
		}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	filteredPosts := make([]*model.Post, 0)
	for _, post := range p.posts {
		if filters.AuthorID != nil && post.AuthorID != *filters.AuthorID {
			continue
		}
		if authors != nil {
			if _, ok := authors[post.AuthorID]; !ok {
				continue
			}
		}
		postCopy := *post
		filteredPosts = append(filteredPosts, &postCopy)
	}

	sort.Slice(filteredPosts, func(i, j int) bool {
		if filteredPosts[i].CreatedAt.Equal(filteredPosts[j].CreatedAt) {
			return filteredPosts[i].ID > filteredPosts[j].ID
		}
		return filteredPosts[i].CreatedAt.After(filteredPosts[j].CreatedAt)
	})

	total := len(filteredPosts)

	if filters.Offset != nil {
		offset := *filters.Offset
		if offset >= total {
			return []*model.Post{}, total, nil
		}
		if offset > 0 {
			filteredPosts = filteredPosts[offset:]
		}
	}
	if filters.Limit != nil && *filters.Limit >= 0 && *filters.Limit < len(filteredPosts) {
		filteredPosts = filteredPosts[:*filters.Limit]
	}

	return filteredPosts, total, nil
}
