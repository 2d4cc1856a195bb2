package gifts

import (
	"errors"
	"fmt"
)

var (
	ErrGiftNotFound   = errors.New("gift not found")
	ErrMemberNotFound = errors.New("family member not found")
	// ErrLedgerNotFound hides ledgers the caller has no connection to.
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrForbidden      = errors.New("read only access")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
