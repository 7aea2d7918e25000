package auth

import (
	"net/mail"
	"strings"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/common/validation"
)

type RegisterDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *RegisterDTO) Validate() *errors.AppError {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)

	v := validation.NewValidator()
	v.Field("username", d.Username).
		Required().
		MaxLength(80)
	v.Field("email", d.Email).
		Required().
		MaxLength(120).
		Custom(validEmail)
	v.Field("password", d.Password).
		Required().
		MinLength(8)
	return v.Validate()
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}

func validEmail(value interface{}) *errors.AppError {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return errors.NewValidationFieldError("email", "email is not a valid address", errors.ErrCodeValidationFailed)
	}
	return nil
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	AuthTokens
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
