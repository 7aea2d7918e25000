package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/pkg/logger"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// RequireAdmin lets the request through only when the authenticated user is
// an administrator. It must run after the auth middleware.
func RequireAdmin(checker AdminChecker, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := lg
			if reqLogger == nil {
				reqLogger = logger.From(r.Context())
			}

			userID, ok := internal.UserIDFromContext(r.Context())
			if !ok {
				writeAppError(w, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeInvalidToken))
				return
			}

			admin, err := checker.IsAdmin(r.Context(), userID)
			if err != nil {
				appErr, isApp := internal.IsAppError(err)
				if !isApp {
					appErr = internal.NewInternalError("Failed to check permissions", err)
				}
				writeAppError(w, appErr)
				return
			}
			if !admin {
				reqLogger.WarnContext(r.Context(), "access denied: administrator required",
					"user_id", userID,
					"method", r.Method,
					"path", r.URL.Path)
				writeAppError(w, internal.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
