package sharing

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, connection *Connection) error
	// Find returns the newest connection matching filter.
	Find(ctx context.Context, filter Filter) (*Connection, error)
	List(ctx context.Context, filter Filter) ([]Connection, error)
	// TransitionStatus moves id from one status to another only if it is
	// still in from, and reports whether a row changed.
	TransitionStatus(ctx context.Context, id string, from, to Status, at time.Time) (bool, error)
	UpdatePermission(ctx context.Context, id string, permission Permission, at time.Time) error
	Delete(ctx context.Context, id string) error
}
