package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/model"
)

type UserRepository struct {
	log    *logger.Logger
	mu     sync.RWMutex
	users  map[int64]*model.User
	nextID int64
}

func NewUserRepository(log *logger.Logger) *UserRepository {
	return &UserRepository{
		log:    log,
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, custom_errors.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return nil, custom_errors.ErrEmailTaken
		}
	}

	created := *user
	created.ID = r.nextID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	r.nextID++
	r.users[created.ID] = &created

	r.log.Debug("User created", slog.Int64("id", created.ID), slog.String("username", created.Username))
	result := created
	return &result, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		r.log.Debug("User not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64]*model.User, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			userCopy := *user
			result[id] = &userCopy
		}
	}
	return result, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	return nil, custom_errors.ErrUserNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, custom_errors.ErrUserNotFound
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return nil, custom_errors.ErrUserNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && other.Username == update.Username {
			return nil, custom_errors.ErrUsernameTaken
		}
	}

	user.Username = update.Username
	user.AboutMe = update.AboutMe

	result := *user
	return &result, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return custom_errors.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *UserRepository) UpdateLastSeen(ctx context.Context, id int64, seen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return custom_errors.ErrUserNotFound
	}
	seen = seen.UTC()
	user.LastSeen = &seen
	return nil
}
