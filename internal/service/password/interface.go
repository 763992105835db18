package password_service

import (
	"context"

	"myblog/internal/model"
)

type Service interface {
	// RequestReset mails a reset link when email belongs to a user. Unknown
	// addresses are accepted silently.
	RequestReset(ctx context.Context, email string) error
	// CheckToken resolves a reset token to its user without changing anything.
	CheckToken(ctx context.Context, token string) (*model.User, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}
