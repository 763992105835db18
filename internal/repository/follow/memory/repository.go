package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/model"
)

// UserLookup resolves user ids for the list queries and the existence check
// a foreign key would otherwise do.
type UserLookup interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
}

type FollowRepository struct {
	log   *logger.Logger
	users UserLookup
	mu    sync.RWMutex
	edges map[model.Follow]struct{}
}

func NewFollowRepository(log *logger.Logger, users UserLookup) *FollowRepository {
	return &FollowRepository{
		log:   log,
		users: users,
		edges: make(map[model.Follow]struct{}),
	}
}

func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return custom_errors.ErrCannotFollowSelf
	}
	found, err := r.users.GetByIDs(ctx, []int64{followerID, followedID})
	if err != nil {
		return err
	}
	if len(found) != 2 {
		return custom_errors.ErrUserNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.edges[model.Follow{FollowerID: followerID, FollowedID: followedID}] = struct{}{}
	r.log.Debug("Follow edge stored", slog.Int64("follower_id", followerID), slog.Int64("followed_id", followedID))
	return nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.edges, model.Follow{FollowerID: followerID, FollowedID: followedID})
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.edges[model.Follow{FollowerID: followerID, FollowedID: followedID}]
	return ok, nil
}

func (r *FollowRepository) collect(match func(model.Follow) (int64, bool)) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0)
	for edge := range r.edges {
		if id, ok := match(edge); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *FollowRepository) followerIDs(userID int64) []int64 {
	return r.collect(func(e model.Follow) (int64, bool) { return e.FollowerID, e.FollowedID == userID })
}

// FollowedIDs lists everyone followerID follows.
func (r *FollowRepository) FollowedIDs(ctx context.Context, followerID int64) ([]int64, error) {
	return r.collect(func(e model.Follow) (int64, bool) { return e.FollowedID, e.FollowerID == followerID }), nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	return len(r.followerIDs(userID)), nil
}

func (r *FollowRepository) CountFollowed(ctx context.Context, userID int64) (int, error) {
	ids, _ := r.FollowedIDs(ctx, userID)
	return len(ids), nil
}

func (r *FollowRepository) resolve(ctx context.Context, ids []int64) ([]*model.User, error) {
	found, err := r.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	users := make([]*model.User, 0, len(found))
	for _, id := range ids {
		if u, ok := found[id]; ok {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID int64) ([]*model.User, error) {
	return r.resolve(ctx, r.followerIDs(userID))
}

func (r *FollowRepository) ListFollowed(ctx context.Context, userID int64) ([]*model.User, error) {
	ids, _ := r.FollowedIDs(ctx, userID)
	return r.resolve(ctx, ids)
}
