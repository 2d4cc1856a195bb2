package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wedledger/internal/transport/httpserver/middleware"
)

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.Parse("2006-01-02", value)
}

func parseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseBoolParam(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

// caller resolves who is making the request. A session always wins and a
// claimed id that disagrees with it is treated as not found. Without a
// session the claimed id is trusted.
func (h *Handlers) caller(w http.ResponseWriter, r *http.Request, claimed string) (string, bool) {
	claimed = strings.TrimSpace(claimed)
	if sessionID, ok := middleware.UserIDFromContext(r.Context()); ok {
		if claimed != "" && claimed != sessionID {
			h.logger(r).Warn("auth.caller: claimed id does not match session", "session_user_id", sessionID, "claimed_id", claimed)
			writeError(w, http.StatusNotFound, "not found")
			return "", false
		}
		return sessionID, true
	}
	if claimed == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return "", false
	}
	if !validID(claimed) {
		writeError(w, http.StatusNotFound, "not found")
		return "", false
	}
	return claimed, true
}

// validID reports whether value has the canonical UUID form every stored
// row id uses. Anything else cannot match a row.
func validID(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// pathID reads a row id from the route. A malformed id is answered with 404
// before it reaches the store.
func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if !validID(id) {
		h.logger(r).Debug("handler.path_id: malformed id", "param", name, "value", id)
		writeError(w, http.StatusNotFound, "not found")
		return "", false
	}
	return id, true
}
