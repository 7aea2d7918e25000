package user

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/budgetwise/internal"
	userDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/user"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "user_id", id)
	}
	return FromDataModel(u), nil
}

// GetByEmail matches case-insensitively; emails are stored lowercased.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, s.mapLookupError(err, "email", email)
	}
	return FromDataModel(u), nil
}

// Create stores a user whose password is already hashed. Email is checked
// before username.
func (s *Service) Create(ctx context.Context, username, email, passwordHash string, demo bool) (*User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.ErrEmailTaken
	} else if !stderrors.Is(err, ErrNotFound) {
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, errors.ErrUsernameTaken
	} else if !stderrors.Is(err, ErrNotFound) {
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	record := &userDatamodel.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsDemoUser:   demo,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if stderrors.Is(err, ErrDuplicateUser) {
			return nil, errors.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err, "username", username)
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "username", username)
	return FromDataModel(record), nil
}

// IsAdmin reports whether the user may run administrative operations. An
// unknown user is not an administrator.
func (s *Service) IsAdmin(ctx context.Context, id int64) (bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if stderrors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		s.logger.Error("failed to load user", "error", err, "user_id", id)
		return false, errors.NewInternalError("Failed to fetch user", err)
	}
	return u.IsAdmin, nil
}

func (s *Service) SetAdmin(ctx context.Context, id int64, admin bool) error {
	if err := s.repo.SetAdmin(ctx, id, admin); err != nil {
		return s.mapLookupError(err, "user_id", id)
	}
	s.logger.Info("user admin flag changed", "user_id", id, "is_admin", admin)
	return nil
}

func (s *Service) mapLookupError(err error, key string, value interface{}) error {
	if stderrors.Is(err, ErrNotFound) {
		return errors.ErrUserNotFound
	}
	s.logger.Error("failed to load user", "error", err, key, value)
	return errors.NewInternalError("Failed to fetch user", err)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
