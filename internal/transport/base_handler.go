package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/frahmantamala/budgetwise/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// HandleError writes an AppError as {"error": {...}}.
func (h *BaseHandler) HandleError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "code", appErr.Code, "error", appErr.GetDetailedMessage())
	} else {
		h.Logger.Debug("request rejected", "status", status, "code", appErr.Code, "message", appErr.Message)
	}
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps any service error to a response; errors that are
// not AppErrors become a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.HandleError(w, appErr)
		return
	}
	h.HandleError(w, internal.NewInternalError("Internal server error", err))
}

// DecodeJSON reads the request body into dst, reporting a validation error
// for malformed payloads. Malformed dates surface with their own message.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *internal.AppError {
	if r.Body == nil || r.Body == http.NoBody {
		return internal.NewValidationError("Request body is required", internal.ErrCodeValidationFailed)
	}
	return h.decodeError(json.NewDecoder(r.Body).Decode(dst))
}

// DecodeOptionalJSON is DecodeJSON for endpoints where the body may be absent.
func (h *BaseHandler) DecodeOptionalJSON(r *http.Request, dst interface{}) *internal.AppError {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return h.decodeError(err)
}

func (h *BaseHandler) decodeError(err error) *internal.AppError {
	if err == nil {
		return nil
	}
	if errors.Is(err, datex.ErrInvalidDate) {
		return internal.ErrInvalidDateFormat
	}
	h.Logger.Debug("invalid request body", "error", err)
	return internal.NewValidationError("Invalid request body", internal.ErrCodeValidationFailed)
}

// UserID returns the authenticated user id or writes a 401.
func (h *BaseHandler) UserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := internal.UserIDFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeInvalidToken))
		return 0, false
	}
	return userID, true
}

// PathID parses a positive integer URL parameter or writes a 400.
func (h *BaseHandler) PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.HandleError(w, internal.NewValidationError("Invalid "+name, internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
