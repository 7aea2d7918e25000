package auth

import (
	"context"
	"fmt"
	"net/http"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/transport"
	"github.com/frahmantamala/budgetwise/internal/user"
	"github.com/frahmantamala/budgetwise/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*user.User, error)
	Login(ctx context.Context, dto LoginDTO) (*user.User, AuthTokens, error)
	Refresh(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	u, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Message: "User created successfully",
		UserID:  u.ID,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	u, tokens, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Message:    fmt.Sprintf("Welcome %s", u.Username),
		UserID:     u.ID,
		Username:   u.Username,
		AuthTokens: tokens,
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	tokens, err := h.Service.Refresh(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is acknowledged only; tokens are stateless and expire on their own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	h.Logger.Info("user logged out", "user_id", userID)
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Successfully logged out"})
}

// AuthMiddleware resolves the bearer token to a user id and stores it on the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleError(w, errors.NewUnauthorizedError("Missing authorization token", errors.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Debug("token validation failed", "error", err, "path", r.URL.Path)
			h.HandleServiceError(w, err)
			return
		}

		ctx := errors.ContextWithUserID(r.Context(), claims.UserID)
		ctx = logger.WithUser(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
