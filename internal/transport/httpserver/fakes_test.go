package httpserver

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	accountdomain "wedledger/internal/domain/account"
	giftsdomain "wedledger/internal/domain/gifts"
	notificationsdomain "wedledger/internal/domain/notifications"
	sharingdomain "wedledger/internal/domain/sharing"
)

type memAccounts struct {
	mu   sync.Mutex
	byID map[string]accountdomain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: make(map[string]accountdomain.Account)}
}

func (r *memAccounts) seed(phone, firstName, lang string) string {
	name := firstName
	account := accountdomain.Account{
		ID:        accountdomain.DeriveID(phone),
		Phone:     phone,
		FirstName: &name,
		Language:  lang,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[account.ID] = account
	return account.ID
}

func (r *memAccounts) GetByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, accountdomain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *memAccounts) GetByPhone(ctx context.Context, phone string) (*accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.byID {
		if account.Phone == phone {
			return &account, nil
		}
	}
	return nil, accountdomain.ErrAccountNotFound
}

func (r *memAccounts) ListByIDs(ctx context.Context, ids []string) ([]accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]accountdomain.Account, 0, len(ids))
	for _, id := range ids {
		if account, ok := r.byID[id]; ok {
			result = append(result, account)
		}
	}
	return result, nil
}

func (r *memAccounts) CreateIfAbsent(ctx context.Context, account *accountdomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Phone == account.Phone {
			return nil
		}
	}
	r.byID[account.ID] = *account
	return nil
}

func (r *memAccounts) SetOTPCode(ctx context.Context, id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return accountdomain.ErrAccountNotFound
	}
	account.OTPCode = &code
	r.byID[id] = account
	return nil
}

func (r *memAccounts) ClearOTPCode(ctx context.Context, id, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok || account.OTPCode == nil || *account.OTPCode != code {
		return false, nil
	}
	account.OTPCode = nil
	r.byID[id] = account
	return true, nil
}

func (r *memAccounts) UpdateProfile(ctx context.Context, id string, update accountdomain.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return accountdomain.ErrAccountNotFound
	}
	if update.FirstName != nil {
		account.FirstName = update.FirstName
	}
	if update.LastName != nil {
		account.LastName = update.LastName
	}
	if update.Birthdate != nil {
		account.Birthdate = update.Birthdate
	}
	if update.Language != nil {
		account.Language = *update.Language
	}
	r.byID[id] = account
	return nil
}

func (r *memAccounts) CountRecords(ctx context.Context, id string) (accountdomain.Counts, error) {
	return accountdomain.Counts{FamilyCount: 2, GiftsCount: 7}, nil
}

type memConnections struct {
	mu    sync.Mutex
	items []sharingdomain.Connection
}

func connectionMatches(c sharingdomain.Connection, f sharingdomain.Filter) bool {
	return (f.ID == "" || c.ID == f.ID) &&
		(f.Token == "" || c.InviteToken == f.Token) &&
		(f.OwnerID == "" || c.OwnerID == f.OwnerID) &&
		(f.ViewerID == "" || c.ViewerID == f.ViewerID) &&
		(f.Status == "" || c.Status == f.Status)
}

func (r *memConnections) Create(ctx context.Context, connection *sharingdomain.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *connection)
	return nil
}

func (r *memConnections) Find(ctx context.Context, filter sharingdomain.Filter) (*sharingdomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.items) - 1; i >= 0; i-- {
		if connectionMatches(r.items[i], filter) {
			found := r.items[i]
			return &found, nil
		}
	}
	return nil, sharingdomain.ErrConnectionNotFound
}

func (r *memConnections) List(ctx context.Context, filter sharingdomain.Filter) ([]sharingdomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]sharingdomain.Connection, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if connectionMatches(r.items[i], filter) {
			result = append(result, r.items[i])
		}
	}
	return result, nil
}

func (r *memConnections) TransitionStatus(ctx context.Context, id string, from, to sharingdomain.Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].Status == from {
			r.items[i].Status = to
			r.items[i].UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (r *memConnections) UpdatePermission(ctx context.Context, id string, permission sharingdomain.Permission, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Permission = permission
			r.items[i].UpdatedAt = at
			return nil
		}
	}
	return sharingdomain.ErrConnectionNotFound
}

func (r *memConnections) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = slices.Delete(r.items, i, i+1)
			return nil
		}
	}
	return sharingdomain.ErrConnectionNotFound
}

type memNotifications struct {
	mu    sync.Mutex
	items []notificationsdomain.Notification
}

func (r *memNotifications) Create(ctx context.Context, notification *notificationsdomain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *notification)
	return nil
}

func (r *memNotifications) List(ctx context.Context, userID string, filter notificationsdomain.ListFilter) ([]notificationsdomain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]notificationsdomain.Notification, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		item := r.items[i]
		if item.UserID != userID || (filter.UnreadOnly && item.IsRead) {
			continue
		}
		result = append(result, item)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *memNotifications) SetRead(ctx context.Context, id, userID string, read bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = read
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotifications) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for i := range r.items {
		if r.items[i].UserID == userID && !r.items[i].IsRead {
			r.items[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (r *memNotifications) Delete(ctx context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items = slices.Delete(r.items, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotifications) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, item := range r.items {
		if item.UserID == userID && !item.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotifications) types(userID string) []notificationsdomain.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]notificationsdomain.Type, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, item.Type)
		}
	}
	return result
}

type memGifts struct {
	mu      sync.Mutex
	gifts   []giftsdomain.Gift
	members []giftsdomain.FamilyMember
}

func (r *memGifts) ListGifts(ctx context.Context, ownerID string, filter giftsdomain.ListFilter) ([]giftsdomain.Gift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]giftsdomain.Gift, 0)
	for _, gift := range r.gifts {
		if gift.OwnerID != ownerID {
			continue
		}
		if filter.MemberID != "" && gift.FromID() != filter.MemberID {
			continue
		}
		if filter.From != nil && gift.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && gift.Date.After(*filter.To) {
			continue
		}
		result = append(result, gift)
	}
	return result, nil
}

func (r *memGifts) GetGift(ctx context.Context, ownerID, id string) (*giftsdomain.Gift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, gift := range r.gifts {
		if gift.ID == id && gift.OwnerID == ownerID {
			return &gift, nil
		}
	}
	return nil, giftsdomain.ErrGiftNotFound
}

func (r *memGifts) CreateGift(ctx context.Context, gift *giftsdomain.Gift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gifts = append(r.gifts, *gift)
	return nil
}

func (r *memGifts) UpdateGift(ctx context.Context, gift *giftsdomain.Gift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.gifts {
		if r.gifts[i].ID == gift.ID {
			r.gifts[i] = *gift
			return nil
		}
	}
	return giftsdomain.ErrGiftNotFound
}

func (r *memGifts) DeleteGift(ctx context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.gifts {
		if r.gifts[i].ID == id && r.gifts[i].OwnerID == ownerID {
			r.gifts = slices.Delete(r.gifts, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (r *memGifts) ListMembers(ctx context.Context, ownerID string) ([]giftsdomain.FamilyMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]giftsdomain.FamilyMember, 0)
	for _, member := range r.members {
		if member.OwnerID == ownerID {
			result = append(result, member)
		}
	}
	return result, nil
}

func (r *memGifts) GetMember(ctx context.Context, ownerID, id string) (*giftsdomain.FamilyMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, member := range r.members {
		if member.ID == id && member.OwnerID == ownerID {
			return &member, nil
		}
	}
	return nil, giftsdomain.ErrMemberNotFound
}

func (r *memGifts) CreateMember(ctx context.Context, member *giftsdomain.FamilyMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = append(r.members, *member)
	return nil
}

func (r *memGifts) UpdateMember(ctx context.Context, member *giftsdomain.FamilyMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.members {
		if r.members[i].ID == member.ID {
			r.members[i] = *member
			return nil
		}
	}
	return giftsdomain.ErrMemberNotFound
}

func (r *memGifts) DeleteMember(ctx context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.members {
		if r.members[i].ID == id && r.members[i].OwnerID == ownerID {
			r.members = slices.Delete(r.members, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

var sentCode = regexp.MustCompile(`\d{6}`)

type capturingSender struct {
	mu      sync.Mutex
	codes   map[string]string
	invites map[string]string
}

func (s *capturingSender) Send(ctx context.Context, phone, body string) (accountdomain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.Contains(body, "/invite?token=") {
		if s.invites == nil {
			s.invites = make(map[string]string)
		}
		s.invites[phone] = body
	} else {
		s.codes[phone] = sentCode.FindString(body)
	}
	return accountdomain.Delivery{Success: true, Recipients: 1}, nil
}

func (s *capturingSender) invite(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invites[phone]
}

func (s *capturingSender) code(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}

// fakeSessions issues "session-<id>" tokens.
type fakeSessions struct{}

func (fakeSessions) Issue(accountID string) (accountdomain.Session, error) {
	return accountdomain.Session{Token: "session-" + accountID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (fakeSessions) Parse(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "session-")
	if !ok || id == "" {
		return "", accountdomain.ErrInvalidCode
	}
	return id, nil
}
