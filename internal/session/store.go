package session

import (
	"context"
	"time"
)

type Store interface {
	Save(ctx context.Context, id string, userID int64, ttl time.Duration) error
	// Load returns ErrSessionNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
