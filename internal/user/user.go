package user

import (
	stderrors "errors"
	"time"

	userDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/user"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsDemoUser   bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsDemoUser bool      `json:"is_demo_user"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsDemoUser: u.IsDemoUser,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
	}
}

var (
	ErrNotFound      = stderrors.New("user not found")
	ErrDuplicateUser = stderrors.New("username or email already in use")
)

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsDemoUser:   u.IsDemoUser,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsDemoUser:   u.IsDemoUser,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
