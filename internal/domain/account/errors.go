package account

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrPhoneRequired    = errors.New("phone is required")
	ErrCodeRequired     = errors.New("otp is required")
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrDeliveryFailed   = errors.New("message delivery failed")
	ErrInvalidLanguage  = errors.New("unsupported language")
	ErrInvalidBirthdate = errors.New("birthdate is in the future")
)
