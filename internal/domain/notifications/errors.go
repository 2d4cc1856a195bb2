package notifications

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidType          = errors.New("invalid notification type")
	ErrInvalidRelatedID     = errors.New("relatedId must be a uuid")
)
