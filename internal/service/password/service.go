package password_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/mailer"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository"
	user_repository "myblog/internal/repository/user"
)

// ResetTokens issues and verifies password reset tokens.
type ResetTokens interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

type PasswordService struct {
	userRepo user_repository.Repository
	uow      repository.UnitOfWork
	tokens   ResetTokens
	mailer   mailer.Mailer
	// resetURL is the link prefix the token is appended to.
	resetURL string
	log      *logger.Logger
	metrics  metrics.MetricsProvider
}

func NewPasswordService(
	userRepo user_repository.Repository,
	uow repository.UnitOfWork,
	tokens ResetTokens,
	mailer mailer.Mailer,
	resetURL string,
	log *logger.Logger,
	metrics metrics.MetricsProvider,
) *PasswordService {
	return &PasswordService{
		userRepo: userRepo,
		uow:      uow,
		tokens:   tokens,
		mailer:   mailer,
		resetURL: strings.TrimRight(resetURL, "/"),
		log:      log,
		metrics:  metrics,
	}
}

func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error("Failed to issue reset token", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		return err
	}

	link := s.resetURL + "/" + token
	body := fmt.Sprintf("Dear %s,\n\nTo reset your password click on the following link:\n\n%s\n\n"+
		"If you have not requested a password reset simply ignore this message.\n\nSincerely,\n\nThe Microblog Team\n",
		user.Username, link)
	msg := mailer.Message{
		Kind:    "reset_password",
		To:      []string{user.Email},
		Subject: "[Microblog] Reset Your Password",
		Body:    body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("Failed to queue reset email", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		return err
	}

	s.log.Info("Password reset email queued", slog.Int64("user_id", user.ID))
	return nil
}

func (s *PasswordService) CheckToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Debug("Rejected reset token", slog.String("error", err.Error()))
		return nil, custom_errors.ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return nil, custom_errors.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	defer func() { s.metrics.IncrementUserOperations("reset_password", err == nil) }()

	if newPassword == "" {
		return custom_errors.ErrUserValidation
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Debug("Rejected reset token", slog.String("error", err.Error()))
		return custom_errors.ErrInvalidToken
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				s.log.Debug("Transaction rollback", slog.String("error", rollbackErr.Error()))
			}
		}
	}()

	users := tx.UserRepository()
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return custom_errors.ErrInvalidToken
		}
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := users.UpdatePassword(ctx, user.ID, user.PasswordHash); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit password reset", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	committed = true

	s.log.Info("Password reset", slog.Int64("user_id", user.ID))
	return nil
}

