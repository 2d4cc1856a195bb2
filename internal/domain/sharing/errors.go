package sharing

import "errors"

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrViewerNotFound     = errors.New("no account for this phone number")
	ErrAlreadyConnected   = errors.New("already connected")
	ErrInviteAccepted     = errors.New("invite already accepted")
	ErrInviteRevoked      = errors.New("invite revoked")
	ErrInviteExpired      = errors.New("invite expired")
	ErrInvalidPermission  = errors.New("permission must be read or read_write")
	ErrInvalidRole        = errors.New("role must be owner or viewer")
	ErrSelfInvite         = errors.New("cannot invite yourself")
	ErrTokenRequired      = errors.New("token is required")
	ErrUnknownStatus      = errors.New("unknown connection status")
)
