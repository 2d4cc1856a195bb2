package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"wedledger/pkg/logger"
)

// SessionParser returns the account id carried by a session token.
type SessionParser interface {
	Parse(token string) (string, error)
}

type SessionAuth struct {
	sessions SessionParser
	skipAuth bool
	log      logger.Logger
}

type contextKey int

const userIDKey contextKey = iota

func NewSessionAuth(sessions SessionParser, skipAuth bool, log logger.Logger) *SessionAuth {
	return &SessionAuth{sessions: sessions, skipAuth: skipAuth, log: log}
}

// Middleware puts the session account id in the request context. With
// skipAuth a missing or bad token is tolerated and handlers fall back to the
// caller id sent by the client.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			if a.skipAuth {
				next.ServeHTTP(w, r)
				return
			}
			unauthorized(w)
			return
		}

		if a.sessions == nil {
			if a.skipAuth {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusInternalServerError, "auth not configured")
			return
		}

		userID, err := a.sessions.Parse(token)
		if err != nil {
			if a.skipAuth {
				next.ServeHTTP(w, r)
				return
			}
			a.log.BusinessError("auth.session: rejected token", err, "path", r.URL.Path)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid session")
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
