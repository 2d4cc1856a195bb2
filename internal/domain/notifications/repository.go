package notifications

import "context"

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	List(ctx context.Context, userID string, filter ListFilter) ([]Notification, error)
	SetRead(ctx context.Context, id, userID string, read bool) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}
