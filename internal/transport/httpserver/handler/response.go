package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	accountdomain "wedledger/internal/domain/account"
	giftsdomain "wedledger/internal/domain/gifts"
	notificationsdomain "wedledger/internal/domain/notifications"
	sharingdomain "wedledger/internal/domain/sharing"
	"wedledger/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

var (
	validationErrors = []error{
		accountdomain.ErrPhoneRequired,
		accountdomain.ErrCodeRequired,
		accountdomain.ErrInvalidLanguage,
		accountdomain.ErrInvalidBirthdate,
		sharingdomain.ErrInvalidPermission,
		sharingdomain.ErrInvalidRole,
		sharingdomain.ErrSelfInvite,
		sharingdomain.ErrTokenRequired,
		notificationsdomain.ErrTitleRequired,
		notificationsdomain.ErrInvalidType,
		notificationsdomain.ErrInvalidRelatedID,
	}
	notFoundErrors = []error{
		accountdomain.ErrAccountNotFound,
		sharingdomain.ErrConnectionNotFound,
		sharingdomain.ErrViewerNotFound,
		notificationsdomain.ErrNotificationNotFound,
		giftsdomain.ErrGiftNotFound,
		giftsdomain.ErrMemberNotFound,
		giftsdomain.ErrLedgerNotFound,
	}
	conflictErrors = []error{
		sharingdomain.ErrAlreadyConnected,
		sharingdomain.ErrInviteAccepted,
		sharingdomain.ErrInviteRevoked,
		sharingdomain.ErrInviteExpired,
		sharingdomain.ErrUnknownStatus,
	}
)

// statusFor maps a domain error to its HTTP status. Conflicts are reported
// as 400 to match what clients already handle.
func statusFor(err error) int {
	var validation *giftsdomain.ValidationError
	switch {
	case errors.As(err, &validation), isAny(err, validationErrors), isAny(err, conflictErrors):
		return http.StatusBadRequest
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case errors.Is(err, accountdomain.ErrInvalidCode):
		return http.StatusUnauthorized
	case errors.Is(err, giftsdomain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeDomainError logs err under op and writes the mapped response. Only
// 5xx responses hide the error text.
func (h *Handlers) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		message := "internal error"
		if errors.Is(err, accountdomain.ErrDeliveryFailed) {
			message = "failed to send verification code"
		}
		h.logger(r).InternalError(op+": failed", err, args...)
		writeError(w, status, message)
		return
	}

	h.logger(r).BusinessError(op+": rejected", err, args...)
	writeError(w, status, err.Error())
}

// logger returns the request-scoped logger set by the router.
func (h *Handlers) logger(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}
