package session

import (
	"context"
	"errors"
	"time"

	redis_cache "myblog/internal/cache/redis"
	"myblog/internal/custom_errors"
)

const sessionKeyPrefix = "session:"

type redisSession struct {
	UserID int64 `json:"user_id"`
}

// RedisStore keeps sessions in redis; expiry is the key TTL.
type RedisStore struct {
	client *redis_cache.Client
}

func NewRedisStore(client *redis_cache.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, id string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKeyPrefix+id, redisSession{UserID: userID}, ttl)
}

func (s *RedisStore) Load(ctx context.Context, id string) (int64, error) {
	var stored redisSession
	if err := s.client.Get(ctx, sessionKeyPrefix+id, &stored); err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			return 0, custom_errors.ErrSessionNotFound
		}
		return 0, err
	}
	return stored.UserID, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, sessionKeyPrefix+id)
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	return s.client.CountPattern(ctx, sessionKeyPrefix+"*")
}
