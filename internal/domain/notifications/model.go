package notifications

import "time"

type Type string

const (
	TypeInvite           Type = "invite"
	TypePermissionUpdate Type = "permission_update"
	TypeRevoked          Type = "revoked"
	TypeViewed           Type = "viewed"
	TypeAccepted         Type = "accepted"
	TypeGeneral          Type = "general"
)

func (t Type) Valid() bool {
	switch t {
	case TypeInvite, TypePermissionUpdate, TypeRevoked, TypeViewed, TypeAccepted, TypeGeneral:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Body      string    `gorm:"not null"`
	Type      Type      `gorm:"type:varchar(32);not null"`
	RelatedID *string   `gorm:"type:uuid"`
	IsRead    bool      `gorm:"column:is_read;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Payload carries the values interpolated into a message.
type Payload struct {
	Name       string
	Permission string
	Message    string
}

type Message struct {
	Title string
	Body  string
}

// Event is a lifecycle transition addressed to one account.
type Event struct {
	RecipientID string
	Type        Type
	Language    string
	Payload     Payload
	RelatedID   string
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int
}

type CreateInput struct {
	Title     string
	Body      string
	Type      Type
	RelatedID string
}
