package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/pkg/logger"
)

// RecoveryMiddleware turns a handler panic into a 500 with the standard
// error body. http.ErrAbortHandler is re-raised so the server can drop the
// connection.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				reqLogger := lg
				if reqLogger == nil {
					reqLogger = logger.From(r.Context())
				}
				reqLogger.ErrorContext(r.Context(), "panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))

				writeAppError(w, internal.NewInternalError("Internal server error", nil))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
