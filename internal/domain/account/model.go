package account

import (
	"strings"
	"time"
)

const (
	LanguageEnglish = "en"
	LanguageKorean  = "ko"
)

type Account struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	Phone     string     `gorm:"not null;uniqueIndex"`
	FirstName *string    `gorm:"type:text"`
	LastName  *string    `gorm:"type:text"`
	Birthdate *time.Time `gorm:"type:date"`
	Language  string     `gorm:"type:varchar(8);not null;default:en"`
	OTPCode   *string    `gorm:"column:otp_code;type:varchar(6)"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}

// Profile is the part of an account other users may see.
type Profile struct {
	ID        string
	Phone     string
	FirstName string
	LastName  string
	Birthdate *time.Time
	Language  string
}

func (a Account) Profile() Profile {
	profile := Profile{
		ID:        a.ID,
		Phone:     a.Phone,
		Birthdate: a.Birthdate,
		Language:  a.Language,
	}
	if a.FirstName != nil {
		profile.FirstName = *a.FirstName
	}
	if a.LastName != nil {
		profile.LastName = *a.LastName
	}
	if profile.Language == "" {
		profile.Language = LanguageEnglish
	}
	return profile
}

// DisplayName is empty when the account never filled in a name.
func (p Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Counts struct {
	FamilyCount int64
	GiftsCount  int64
}

type Session struct {
	Token     string
	ExpiresAt time.Time
}

type VerifyResult struct {
	Profile Profile
	Counts  Counts
	Session *Session
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Birthdate *time.Time
	Language  *string
}

type Delivery struct {
	Success    bool
	Recipients int
}

func SupportedLanguage(lang string) bool {
	switch lang {
	case LanguageEnglish, LanguageKorean:
		return true
	default:
		return false
	}
}
