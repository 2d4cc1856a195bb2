package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"wedledger/pkg/logger"
)

// NewRequestLogger puts a logger tagged with the chi request id into the
// request context. It must run after chi's RequestID middleware.
func NewRequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scoped := log.With(
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), scoped)))
		})
	}
}
