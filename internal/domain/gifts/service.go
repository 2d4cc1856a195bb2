package gifts

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedledger/internal/domain/sharing"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// AccessChecker resolves what a caller may do with an owner's ledger.
type AccessChecker interface {
	Access(ctx context.Context, ownerID, callerID string) (sharing.Access, error)
}

type Service struct {
	repo   Repository
	access AccessChecker
	now    func() time.Time
	newID  func() string
}

func NewService(repo Repository, access AccessChecker) *Service {
	return &Service{
		repo:   repo,
		access: access,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Service) ListGifts(ctx context.Context, callerID, ownerID string, filter ListFilter) ([]Gift, error) {
	if err := s.authorize(ctx, callerID, ownerID, false); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, invalid("to", "must not be before from")
	}
	return s.repo.ListGifts(ctx, ownerID, filter)
}

func (s *Service) CreateGift(ctx context.Context, callerID, ownerID string, input GiftInput) (*Gift, error) {
	if err := s.authorize(ctx, callerID, ownerID, true); err != nil {
		return nil, err
	}
	input, err := s.normalizeGift(ctx, ownerID, input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	gift := Gift{
		ID:            s.newID(),
		OwnerID:       ownerID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		RecipientName: input.RecipientName,
		FromMemberID:  input.FromMemberID,
		EventName:     input.EventName,
		Date:          input.Date,
		Memo:          input.Memo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateGift(ctx, &gift); err != nil {
		return nil, err
	}
	return &gift, nil
}

func (s *Service) UpdateGift(ctx context.Context, callerID, ownerID, giftID string, input GiftInput) (*Gift, error) {
	if err := s.authorize(ctx, callerID, ownerID, true); err != nil {
		return nil, err
	}
	input, err := s.normalizeGift(ctx, ownerID, input)
	if err != nil {
		return nil, err
	}

	gift, err := s.repo.GetGift(ctx, ownerID, giftID)
	if err != nil {
		return nil, err
	}
	gift.Amount = input.Amount
	gift.Currency = input.Currency
	gift.RecipientName = input.RecipientName
	gift.FromMemberID = input.FromMemberID
	gift.EventName = input.EventName
	gift.Date = input.Date
	gift.Memo = input.Memo
	gift.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateGift(ctx, gift); err != nil {
		return nil, err
	}
	return gift, nil
}

func (s *Service) DeleteGift(ctx context.Context, callerID, ownerID, giftID string) error {
	if err := s.authorize(ctx, callerID, ownerID, true); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteGift(ctx, ownerID, giftID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGiftNotFound
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, callerID, ownerID string) ([]FamilyMember, error) {
	if err := s.authorize(ctx, callerID, ownerID, false); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, ownerID)
}

func (s *Service) CreateMember(ctx context.Context, callerID, ownerID string, input MemberInput) (*FamilyMember, error) {
	if err := s.authorize(ctx, callerID, ownerID, true); err != nil {
		return nil, err
	}
	input, err := normalizeMember(input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	member := FamilyMember{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Color:     input.Color,
		Relation:  input.Relation,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateMember(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Service) UpdateMember(ctx context.Context, callerID, ownerID, memberID string, input MemberInput) (*FamilyMember, error) {
	if err := s.authorize(ctx, callerID, ownerID, true); err != nil {
		return nil, err
	}
	input, err := normalizeMember(input)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.GetMember(ctx, ownerID, memberID)
	if err != nil {
		return nil, err
	}
	member.Name = input.Name
	member.Color = input.Color
	member.Relation = input.Relation
	member.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember leaves gifts pointing at the removed member; analytics shows
// them as unknown.
func (s *Service) DeleteMember(ctx context.Context, callerID, ownerID, memberID string) error {
	if err := s.authorize(ctx, callerID, ownerID, true); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteMember(ctx, ownerID, memberID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

// Ledger loads all gifts and members of ownerID for a caller with read access.
func (s *Service) Ledger(ctx context.Context, callerID, ownerID string) (*Ledger, error) {
	if err := s.authorize(ctx, callerID, ownerID, false); err != nil {
		return nil, err
	}

	gifts, err := s.repo.ListGifts(ctx, ownerID, ListFilter{})
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &Ledger{OwnerID: ownerID, Gifts: gifts, Members: members}, nil
}

func (s *Service) authorize(ctx context.Context, callerID, ownerID string, write bool) error {
	access, err := s.access.Access(ctx, ownerID, callerID)
	if err != nil {
		if errors.Is(err, sharing.ErrConnectionNotFound) {
			return ErrLedgerNotFound
		}
		return err
	}
	if !access.CanRead() {
		return ErrLedgerNotFound
	}
	if write && !access.CanWrite() {
		return ErrForbidden
	}
	return nil
}

func (s *Service) normalizeGift(ctx context.Context, ownerID string, input GiftInput) (GiftInput, error) {
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	input.RecipientName = strings.TrimSpace(input.RecipientName)
	input.EventName = strings.TrimSpace(input.EventName)
	input.Memo = strings.TrimSpace(input.Memo)

	if !input.Amount.IsPositive() {
		return input, invalid("amount", "must be greater than zero")
	}
	if !currencyPattern.MatchString(input.Currency) {
		return input, invalid("currency", "must be a 3 letter code")
	}
	if input.RecipientName == "" {
		return input, invalid("recipientName", "is required")
	}
	if input.Date.IsZero() {
		return input, invalid("date", "is required")
	}
	input.Amount = input.Amount.Round(2)
	input.Date = time.Date(input.Date.Year(), input.Date.Month(), input.Date.Day(), 0, 0, 0, 0, time.UTC)

	if input.FromMemberID != nil {
		id := strings.TrimSpace(*input.FromMemberID)
		if id == "" {
			input.FromMemberID = nil
			return input, nil
		}
		if _, err := s.repo.GetMember(ctx, ownerID, id); err != nil {
			if errors.Is(err, ErrMemberNotFound) {
				return input, invalid("fromMemberId", "does not match a family member")
			}
			return input, err
		}
		input.FromMemberID = &id
	}
	return input, nil
}

func normalizeMember(input MemberInput) (MemberInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)
	input.Relation = strings.TrimSpace(input.Relation)

	if input.Name == "" {
		return input, invalid("name", "is required")
	}
	if input.Color == "" {
		input.Color = DefaultMemberColor
	}
	if !colorPattern.MatchString(input.Color) {
		return input, invalid("color", "must be a #RRGGBB hex color")
	}
	return input, nil
}
