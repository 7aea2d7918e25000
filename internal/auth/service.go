package auth

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user service auth needs.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, username, email, passwordHash string, demo bool) (*user.User, error)
}

type Service struct {
	users      UserStore
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserStore, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	u, err := s.users.Create(ctx, dto.Username, dto.Email, hash, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login checks credentials and issues a token pair. Unknown emails and wrong
// passwords fail the same way.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*user.User, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr == errors.ErrUserNotFound {
			s.logger.Warn("failed login attempt", "email", user.NormalizeEmail(dto.Email))
			return nil, AuthTokens{}, errors.ErrInvalidCredentials
		}
		return nil, AuthTokens{}, err
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("failed login attempt", "email", u.Email)
		return nil, AuthTokens{}, errors.ErrInvalidCredentials
	}

	tokens, err := s.issue(u)
	if err != nil {
		return nil, AuthTokens{}, err
	}
	s.logger.Info("user logged in", "user_id", u.ID, "username", u.Username)
	return u, tokens, nil
}

// Refresh exchanges a valid refresh token for a new pair, provided the user
// still exists.
func (s *Service) Refresh(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr == errors.ErrUserNotFound {
			return AuthTokens{}, errors.ErrInvalidToken
		}
		return AuthTokens{}, err
	}
	return s.issue(u)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func (s *Service) issue(u *user.User) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("Failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("Failed to issue token", err)
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
