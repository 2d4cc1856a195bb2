package gifts

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultMemberColor = "#6366F1"

type Gift struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	OwnerID       string          `gorm:"type:uuid;index;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency      string          `gorm:"size:3;not null"`
	RecipientName string          `gorm:"not null"`
	FromMemberID  *string         `gorm:"column:from_member_id;type:uuid"`
	EventName     string          `gorm:"not null"`
	Date          time.Time       `gorm:"column:gift_date;type:date;not null"`
	Memo          string          `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (Gift) TableName() string {
	return "gifts"
}

// FromID is the family member id the gift came from, or "".
func (g Gift) FromID() string {
	if g.FromMemberID == nil {
		return ""
	}
	return *g.FromMemberID
}

type FamilyMember struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	OwnerID   string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Color     string    `gorm:"size:16;not null"`
	Relation  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (FamilyMember) TableName() string {
	return "family_members"
}

type ListFilter struct {
	From     *time.Time
	To       *time.Time
	MemberID string
}

type GiftInput struct {
	Amount        decimal.Decimal
	Currency      string
	RecipientName string
	FromMemberID  *string
	EventName     string
	Date          time.Time
	Memo          string
}

type MemberInput struct {
	Name     string
	Color    string
	Relation string
}

// Ledger is everything recorded under one owner.
type Ledger struct {
	OwnerID string
	Gifts   []Gift
	Members []FamilyMember
}
