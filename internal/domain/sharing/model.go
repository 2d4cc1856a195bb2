package sharing

import (
	"time"

	"wedledger/internal/domain/account"
)

type Permission string

const (
	PermissionRead      Permission = "read"
	PermissionReadWrite Permission = "read_write"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionReadWrite:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"
)

// Role is the side of a connection a caller acts as.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleViewer Role = "viewer"
)

// ParseRole accepts both the owner/viewer names and the child/parent names
// used by the stored columns.
func ParseRole(value string) (Role, error) {
	switch value {
	case "owner", "child":
		return RoleOwner, nil
	case "viewer", "parent":
		return RoleViewer, nil
	default:
		return "", ErrInvalidRole
	}
}

// Connection shares the owner's ledger with the viewer. The owner is stored
// as the child user and the viewer as the parent user.
type Connection struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	OwnerID         string     `gorm:"column:child_user_id;type:uuid;not null;index"`
	ViewerID        string     `gorm:"column:parent_user_id;type:uuid;not null;index"`
	Permission      Permission `gorm:"type:varchar(16);not null"`
	Status          Status     `gorm:"type:varchar(16);not null"`
	InviteToken     string     `gorm:"not null;uniqueIndex"`
	InviteExpiresAt time.Time  `gorm:"not null"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (Connection) TableName() string {
	return "connections"
}

func (c Connection) IsExpired(now time.Time) bool {
	return now.After(c.InviteExpiresAt)
}

// Filter selects connections by equality on every non-empty field.
type Filter struct {
	ID       string
	Token    string
	OwnerID  string
	ViewerID string
	Status   Status
}

type Invite struct {
	Connection Connection
	Token      string
	URL        string
	ExpiresAt  time.Time
	Viewer     account.Profile
}

type InviteDetails struct {
	Connection Connection
	IsExpired  bool
	Owner      account.Profile
	Viewer     account.Profile
}

type Acceptance struct {
	Connection Connection
	Owner      account.Profile
}

// ConnectionView pairs a connection with the profile of the other side.
type ConnectionView struct {
	Connection  Connection
	Counterpart account.Profile
}

// Access is what a caller may do with an owner's ledger.
type Access struct {
	Owner      bool
	Permission Permission
}

func (a Access) CanRead() bool {
	return a.Owner || a.Permission.Valid()
}

func (a Access) CanWrite() bool {
	return a.Owner || a.Permission == PermissionReadWrite
}
