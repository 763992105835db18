package user_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository"
	follow_repository "myblog/internal/repository/follow"
	user_repository "myblog/internal/repository/user"
)

type UserService struct {
	userRepo   user_repository.Repository
	followRepo follow_repository.Repository
	uow        repository.UnitOfWork
	log        *logger.Logger
	metrics    metrics.MetricsProvider
	now        func() time.Time
}

func NewUserService(
	userRepo user_repository.Repository,
	followRepo follow_repository.Repository,
	uow repository.UnitOfWork,
	log *logger.Logger,
	metrics metrics.MetricsProvider,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		uow:        uow,
		log:        log,
		metrics:    metrics,
		now:        time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) rollback(ctx context.Context, tx repository.Transaction, committed *bool) {
	if *committed || tx == nil {
		return
	}
	if err := tx.Rollback(ctx); err != nil {
		s.log.Debug("Transaction rollback", slog.String("error", err.Error()))
	}
}

func (s *UserService) Register(ctx context.Context, dto *model.RegisterUserDTO) (result *model.User, err error) {
	defer func() { s.metrics.IncrementUserOperations("register", err == nil) }()

	username := strings.TrimSpace(dto.Username)
	email := NormalizeEmail(dto.Email)
	if username == "" || utf8.RuneCountInString(username) > model.UsernameMaxLen ||
		email == "" || len(email) > model.EmailMaxLen || dto.Password == "" {
		return nil, custom_errors.ErrUserValidation
	}

	user := &model.User{Username: username, Email: email}
	if err := user.SetPassword(dto.Password); err != nil {
		s.log.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var committed bool
	defer s.rollback(ctx, tx, &committed)

	users := tx.UserRepository()
	if _, err := users.GetByUsername(ctx, username); err == nil {
		return nil, custom_errors.ErrUsernameTaken
	} else if !errors.Is(err, custom_errors.ErrUserNotFound) {
		return nil, err
	}
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil, custom_errors.ErrEmailTaken
	} else if !errors.Is(err, custom_errors.ErrUserNotFound) {
		return nil, err
	}

	// A concurrent registration can still win between the checks and the
	// insert; the unique constraints report it with the same errors.
	created, err := users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit registration", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	committed = true

	s.log.Info("User registered", slog.Int64("user_id", created.ID), slog.String("username", created.Username))
	return created, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (result *model.User, err error) {
	defer func() { s.metrics.IncrementUserOperations("login", err == nil) }()

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Login for unknown username")
			return nil, custom_errors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		s.log.Debug("Login with wrong password", slog.Int64("user_id", user.ID))
		return nil, custom_errors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, dto *model.UpdateProfileDTO) (result *model.User, err error) {
	defer func() { s.metrics.IncrementUserOperations("update_profile", err == nil) }()

	username := strings.TrimSpace(dto.Username)
	if username == "" || utf8.RuneCountInString(username) > model.UsernameMaxLen {
		return nil, custom_errors.ErrUserValidation
	}
	var aboutMe *string
	if dto.AboutMe != nil {
		trimmed := strings.TrimSpace(*dto.AboutMe)
		if utf8.RuneCountInString(trimmed) > model.AboutMeMaxLen {
			return nil, custom_errors.ErrUserValidation
		}
		if trimmed != "" {
			aboutMe = &trimmed
		}
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var committed bool
	defer s.rollback(ctx, tx, &committed)

	users := tx.UserRepository()
	current, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if username != current.Username {
		if _, err := users.GetByUsername(ctx, username); err == nil {
			return nil, custom_errors.ErrUsernameTaken
		} else if !errors.Is(err, custom_errors.ErrUserNotFound) {
			return nil, err
		}
	}

	updated, err := users.UpdateProfile(ctx, userID, &model.UpdateProfileDTO{Username: username, AboutMe: aboutMe})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit profile update", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	committed = true

	s.log.Info("Profile updated", slog.Int64("user_id", userID))
	return updated, nil
}

func (s *UserService) TouchLastSeen(ctx context.Context, user *model.User) error {
	seen := s.now().UTC()
	if err := s.userRepo.UpdateLastSeen(ctx, user.ID, seen); err != nil {
		return err
	}
	user.LastSeen = &seen
	return nil
}

// follow resolves the target and applies change inside one transaction.
func (s *UserService) follow(ctx context.Context, op string, followerID int64, username string,
	change func(repo follow_repository.Repository, ctx context.Context, followerID, followedID int64) error,
) (result *model.User, err error) {
	defer func() { s.metrics.IncrementFollowOperations(op, err == nil) }()

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var committed bool
	defer s.rollback(ctx, tx, &committed)

	target, err := tx.UserRepository().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return target, custom_errors.ErrCannotFollowSelf
	}
	if err := change(tx.FollowRepository(), ctx, followerID, target.ID); err != nil {
		return target, err
	}
	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit follow change", slog.String("op", op), slog.String("error", err.Error()))
		return target, custom_errors.ErrDatabaseQuery
	}
	committed = true

	s.log.Info("Follow graph changed", slog.String("op", op),
		slog.Int64("follower_id", followerID), slog.Int64("followed_id", target.ID))
	return target, nil
}

func (s *UserService) Follow(ctx context.Context, followerID int64, username string) (*model.User, error) {
	return s.follow(ctx, "follow", followerID, username, follow_repository.Repository.Follow)
}

func (s *UserService) Unfollow(ctx context.Context, followerID int64, username string) (*model.User, error) {
	return s.follow(ctx, "unfollow", followerID, username, follow_repository.Repository.Unfollow)
}

func (s *UserService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followedID)
}

func (s *UserService) FollowStats(ctx context.Context, userID int64) (*model.FollowStats, error) {
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	followed, err := s.followRepo.CountFollowed(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.FollowStats{Followers: followers, Followed: followed}, nil
}

func (s *UserService) Followers(ctx context.Context, userID int64) ([]*model.User, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *UserService) Followed(ctx context.Context, userID int64) ([]*model.User, error) {
	return s.followRepo.ListFollowed(ctx, userID)
}
