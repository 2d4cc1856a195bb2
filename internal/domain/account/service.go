package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	otpMin   = 100000
	otpRange = 900000
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, body string) (Delivery, error)
}

type SessionIssuer interface {
	Issue(accountID string) (Session, error)
}

type Service struct {
	repo     Repository
	sender   Sender
	sessions SessionIssuer
	newCode  func() (string, error)
	now      func() time.Time
}

func NewService(repo Repository, sender Sender, sessions SessionIssuer) *Service {
	return &Service{
		repo:     repo,
		sender:   sender,
		sessions: sessions,
		newCode:  generateCode,
		now:      time.Now,
	}
}

// IssueCode stores a fresh code on the account for phone, creating the
// account on first use, and sends it. Any previous code is overwritten.
func (s *Service) IssueCode(ctx context.Context, phone string) (Delivery, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return Delivery{}, ErrPhoneRequired
	}

	account, err := s.ensureAccount(ctx, phone)
	if err != nil {
		return Delivery{}, err
	}

	code, err := s.newCode()
	if err != nil {
		return Delivery{}, fmt.Errorf("generate code: %w", err)
	}

	if err := s.repo.SetOTPCode(ctx, account.ID, code); err != nil {
		return Delivery{}, err
	}

	delivery, err := s.sender.Send(ctx, phone, codeMessage(account.Language, code))
	if err != nil {
		return Delivery{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if !delivery.Success {
		return delivery, ErrDeliveryFailed
	}

	return delivery, nil
}

// VerifyCode checks code against the stored one and consumes it on match.
func (s *Service) VerifyCode(ctx context.Context, phone, code string) (*VerifyResult, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	account, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	if account.OTPCode == nil || *account.OTPCode != code {
		return nil, ErrInvalidCode
	}

	cleared, err := s.repo.ClearOTPCode(ctx, account.ID, code)
	if err != nil {
		return nil, err
	}
	if !cleared {
		// Another verify consumed it first, or a new code replaced it.
		return nil, ErrInvalidCode
	}

	counts, err := s.repo.CountRecords(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		Profile: account.Profile(),
		Counts:  counts,
	}

	if s.sessions != nil {
		session, err := s.sessions.Issue(account.ID)
		if err != nil {
			return nil, fmt.Errorf("issue session: %w", err)
		}
		result.Session = &session
	}

	return result, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := account.Profile()
	return &profile, nil
}

func (s *Service) FindByPhone(ctx context.Context, phone string) (*Profile, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	account, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	profile := account.Profile()
	return &profile, nil
}

// Profiles returns the profiles found for ids; missing ids are absent from the map.
func (s *Service) Profiles(ctx context.Context, ids []string) (map[string]Profile, error) {
	result := make(map[string]Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	accounts, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		result[account.ID] = account.Profile()
	}
	return result, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*Profile, error) {
	if update.FirstName != nil {
		trimmed := strings.TrimSpace(*update.FirstName)
		update.FirstName = &trimmed
	}
	if update.LastName != nil {
		trimmed := strings.TrimSpace(*update.LastName)
		update.LastName = &trimmed
	}
	if update.Language != nil && !SupportedLanguage(*update.Language) {
		return nil, ErrInvalidLanguage
	}
	if update.Birthdate != nil && update.Birthdate.After(s.now()) {
		return nil, ErrInvalidBirthdate
	}

	if err := s.repo.UpdateProfile(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

func (s *Service) ensureAccount(ctx context.Context, phone string) (*Account, error) {
	account, err := s.repo.GetByPhone(ctx, phone)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	created := Account{
		ID:       DeriveID(phone),
		Phone:    phone,
		Language: LanguageEnglish,
	}
	if err := s.repo.CreateIfAbsent(ctx, &created); err != nil {
		return nil, err
	}

	// Re-read so a concurrent first request resolves to the same row.
	return s.repo.GetByPhone(ctx, phone)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

func codeMessage(lang, code string) string {
	switch lang {
	case LanguageKorean:
		return "[WedLedger] 인증번호는 " + code + " 입니다."
	default:
		return "[WedLedger] Your verification code is " + code
	}
}
