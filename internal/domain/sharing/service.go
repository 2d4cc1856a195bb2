package sharing

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedledger/internal/domain/account"
	"wedledger/internal/domain/notifications"
	"wedledger/pkg/logger"
)

const (
	defaultInviteTTL = 7 * 24 * time.Hour
	inviteTokenBytes = 32
)

type AccountDirectory interface {
	FindByPhone(ctx context.Context, phone string) (*account.Profile, error)
	GetProfile(ctx context.Context, id string) (*account.Profile, error)
	Profiles(ctx context.Context, ids []string) (map[string]account.Profile, error)
}

type Notifier interface {
	Notify(ctx context.Context, event notifications.Event)
}

type Config struct {
	InviteTTL       time.Duration
	PublicBaseURL   string
	DefaultLanguage string
}

type Service struct {
	repo     Repository
	accounts AccountDirectory
	notifier Notifier
	sender   account.Sender
	log      logger.Logger
	cfg      Config
	now      func() time.Time
	newID    func() string
	newToken func() (string, error)
}

// NewService wires the lifecycle. sender may be nil, in which case invite
// links are only returned to the caller.
func NewService(repo Repository, accounts AccountDirectory, notifier Notifier, sender account.Sender, log logger.Logger, cfg Config) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.InviteTTL <= 0 {
		cfg.InviteTTL = defaultInviteTTL
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = account.LanguageEnglish
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return &Service{
		repo:     repo,
		accounts: accounts,
		notifier: notifier,
		sender:   sender,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
		newToken: generateToken,
	}
}

// GenerateInvite creates a pending connection from ownerID to the account
// registered under viewerPhone. Earlier pending invites for the same pair
// stay valid; only an accepted connection blocks a new one.
func (s *Service) GenerateInvite(ctx context.Context, ownerID, viewerPhone string, permission Permission, lang string) (*Invite, error) {
	if !permission.Valid() {
		return nil, ErrInvalidPermission
	}

	viewer, err := s.accounts.FindByPhone(ctx, viewerPhone)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, ErrViewerNotFound
		}
		return nil, err
	}
	if viewer.ID == ownerID {
		return nil, ErrSelfInvite
	}

	owner, err := s.accounts.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNotConnected(ctx, ownerID, viewer.ID); err != nil {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	connection := Connection{
		ID:              s.newID(),
		OwnerID:         ownerID,
		ViewerID:        viewer.ID,
		Permission:      permission,
		Status:          StatusPending,
		InviteToken:     token,
		InviteExpiresAt: now.Add(s.cfg.InviteTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, &connection); err != nil {
		return nil, err
	}

	s.notify(ctx, *viewer, notifications.TypeInvite, notifications.Payload{
		Name:       owner.DisplayName(),
		Permission: string(permission),
	}, connection.ID)

	link := s.inviteURL(lang, token)
	s.sendInvite(ctx, *viewer, owner.DisplayName(), s.language(lang), link, connection.ID)

	return &Invite{
		Connection: connection,
		Token:      token,
		URL:        link,
		ExpiresAt:  connection.InviteExpiresAt,
		Viewer:     *viewer,
	}, nil
}

// GetInviteDetails previews a pending invite. The token is the only credential.
func (s *Service) GetInviteDetails(ctx context.Context, token string) (*InviteDetails, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}

	connection, err := s.repo.Find(ctx, Filter{Token: token})
	if err != nil {
		return nil, err
	}

	switch connection.Status {
	case StatusPending:
	case StatusAccepted:
		return nil, ErrInviteAccepted
	case StatusRevoked:
		return nil, ErrInviteRevoked
	default:
		return nil, ErrUnknownStatus
	}

	profiles, err := s.accounts.Profiles(ctx, []string{connection.OwnerID, connection.ViewerID})
	if err != nil {
		return nil, err
	}

	return &InviteDetails{
		Connection: *connection,
		IsExpired:  connection.IsExpired(s.now()),
		Owner:      profileOrID(profiles, connection.OwnerID),
		Viewer:     profileOrID(profiles, connection.ViewerID),
	}, nil
}

// AcceptInvite lets the invited viewer take up a pending invite. The
// permission chosen by the owner is kept as is.
func (s *Service) AcceptInvite(ctx context.Context, token, viewerID string) (*Acceptance, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}

	connection, err := s.repo.Find(ctx, Filter{Token: token, ViewerID: viewerID})
	if err != nil {
		return nil, err
	}

	switch connection.Status {
	case StatusPending:
	case StatusAccepted:
		return nil, ErrInviteAccepted
	case StatusRevoked:
		return nil, ErrInviteRevoked
	default:
		return nil, ErrUnknownStatus
	}

	now := s.now().UTC()
	if connection.IsExpired(now) {
		return nil, ErrInviteExpired
	}

	if err := s.ensureNotConnected(ctx, connection.OwnerID, viewerID); err != nil {
		return nil, err
	}

	moved, err := s.repo.TransitionStatus(ctx, connection.ID, StatusPending, StatusAccepted, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInviteAccepted
	}
	connection.Status = StatusAccepted
	connection.UpdatedAt = now

	owner, err := s.accounts.GetProfile(ctx, connection.OwnerID)
	if err != nil {
		return nil, err
	}

	return &Acceptance{Connection: *connection, Owner: *owner}, nil
}

// UpdatePermission changes the level of an accepted connection. Only the
// viewer of the connection can call it; the owner is notified.
func (s *Service) UpdatePermission(ctx context.Context, connectionID, viewerID string, permission Permission) (*Connection, error) {
	connection, err := s.repo.Find(ctx, Filter{ID: connectionID, ViewerID: viewerID, Status: StatusAccepted})
	if err != nil {
		return nil, err
	}
	if !permission.Valid() {
		return nil, ErrInvalidPermission
	}

	now := s.now().UTC()
	if err := s.repo.UpdatePermission(ctx, connection.ID, permission, now); err != nil {
		return nil, err
	}
	connection.Permission = permission
	connection.UpdatedAt = now

	s.notifyCounterpart(ctx, viewerID, connection.OwnerID, notifications.TypePermissionUpdate, string(permission), connection.ID)

	return connection, nil
}

// RevokeConnection hard-deletes a connection the caller is party to on the
// given side and tells the other side.
func (s *Service) RevokeConnection(ctx context.Context, connectionID, userID string, role Role) error {
	filter := Filter{ID: connectionID}
	switch role {
	case RoleOwner:
		filter.OwnerID = userID
	case RoleViewer:
		filter.ViewerID = userID
	default:
		return ErrInvalidRole
	}

	connection, err := s.repo.Find(ctx, filter)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, connection.ID); err != nil {
		return err
	}

	counterpartID := connection.ViewerID
	if role == RoleViewer {
		counterpartID = connection.OwnerID
	}
	s.notifyCounterpart(ctx, userID, counterpartID, notifications.TypeRevoked, string(connection.Permission), connection.ID)

	return nil
}

// NotifyViewed tells the owner their ledger was opened. The connection must
// be accepted and link exactly these two accounts.
func (s *Service) NotifyViewed(ctx context.Context, ownerID, viewerID, connectionID string) error {
	connection, err := s.repo.Find(ctx, Filter{
		ID:       connectionID,
		OwnerID:  ownerID,
		ViewerID: viewerID,
		Status:   StatusAccepted,
	})
	if err != nil {
		return err
	}

	s.notifyCounterpart(ctx, viewerID, ownerID, notifications.TypeViewed, string(connection.Permission), connection.ID)
	return nil
}

// ListOwned returns every connection ownerID created, newest first, with the
// viewer's profile.
func (s *Service) ListOwned(ctx context.Context, ownerID string) ([]ConnectionView, error) {
	connections, err := s.repo.List(ctx, Filter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	return s.withCounterparts(ctx, connections, func(c Connection) string { return c.ViewerID })
}

// ListShared returns the accepted connections that give viewerID access to
// someone else's ledger.
func (s *Service) ListShared(ctx context.Context, viewerID string) ([]ConnectionView, error) {
	connections, err := s.repo.List(ctx, Filter{ViewerID: viewerID, Status: StatusAccepted})
	if err != nil {
		return nil, err
	}
	return s.withCounterparts(ctx, connections, func(c Connection) string { return c.OwnerID })
}

// Access resolves what callerID may do with ownerID's ledger.
func (s *Service) Access(ctx context.Context, ownerID, callerID string) (Access, error) {
	if ownerID == "" || callerID == "" {
		return Access{}, ErrConnectionNotFound
	}
	if ownerID == callerID {
		return Access{Owner: true}, nil
	}

	connection, err := s.repo.Find(ctx, Filter{OwnerID: ownerID, ViewerID: callerID, Status: StatusAccepted})
	if err != nil {
		return Access{}, err
	}
	return Access{Permission: connection.Permission}, nil
}

func (s *Service) ensureNotConnected(ctx context.Context, ownerID, viewerID string) error {
	_, err := s.repo.Find(ctx, Filter{OwnerID: ownerID, ViewerID: viewerID, Status: StatusAccepted})
	switch {
	case err == nil:
		return ErrAlreadyConnected
	case errors.Is(err, ErrConnectionNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) withCounterparts(ctx context.Context, connections []Connection, counterpart func(Connection) string) ([]ConnectionView, error) {
	ids := make([]string, 0, len(connections))
	seen := make(map[string]struct{}, len(connections))
	for _, connection := range connections {
		id := counterpart(connection)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	profiles, err := s.accounts.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ConnectionView, 0, len(connections))
	for _, connection := range connections {
		views = append(views, ConnectionView{
			Connection:  connection,
			Counterpart: profileOrID(profiles, counterpart(connection)),
		})
	}
	return views, nil
}

// notifyCounterpart names actorID in a message to recipientID. Profile
// lookups here are best effort like the notification itself.
func (s *Service) notifyCounterpart(ctx context.Context, actorID, recipientID string, typ notifications.Type, permission, connectionID string) {
	profiles, err := s.accounts.Profiles(ctx, []string{actorID, recipientID})
	if err != nil {
		profiles = map[string]account.Profile{}
	}
	s.notify(ctx, profileOrID(profiles, recipientID), typ, notifications.Payload{
		Name:       profiles[actorID].DisplayName(),
		Permission: permission,
	}, connectionID)
}

func (s *Service) notify(ctx context.Context, recipient account.Profile, typ notifications.Type, payload notifications.Payload, connectionID string) {
	if s.notifier == nil {
		return
	}
	lang := recipient.Language
	if lang == "" {
		lang = s.cfg.DefaultLanguage
	}
	s.notifier.Notify(ctx, notifications.Event{
		RecipientID: recipient.ID,
		Type:        typ,
		Language:    lang,
		Payload:     payload,
		RelatedID:   connectionID,
	})
}

// sendInvite texts the invite link to the viewer. Failures are logged and
// dropped; the invite stays valid and the link is still returned.
func (s *Service) sendInvite(ctx context.Context, viewer account.Profile, ownerName, lang, link, connectionID string) {
	if s.sender == nil || viewer.Phone == "" {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			s.log.Error("sharing.invite: recovered panic in delivery", "panic", fmt.Sprint(recovered), "connection_id", connectionID)
		}
	}()

	delivery, err := s.sender.Send(ctx, viewer.Phone, inviteMessage(lang, ownerName, link))
	if err == nil && !delivery.Success {
		err = account.ErrDeliveryFailed
	}
	if err != nil {
		s.log.InternalError("sharing.invite: delivery failed", err,
			"connection_id", connectionID,
			"viewer_id", viewer.ID,
			"phone", logger.MaskPhone(viewer.Phone),
		)
		return
	}
	s.log.Debug("sharing.invite: link sent", "connection_id", connectionID, "recipients", delivery.Recipients)
}

func inviteMessage(lang, ownerName, link string) string {
	switch lang {
	case account.LanguageKorean:
		if ownerName == "" {
			ownerName = "가족"
		}
		return "[WedLedger] " + ownerName + "님이 축의금 장부를 공유했습니다. " + link
	default:
		if ownerName == "" {
			ownerName = "A family member"
		}
		return "[WedLedger] " + ownerName + " shared their gift ledger with you: " + link
	}
}

func (s *Service) language(lang string) string {
	if !account.SupportedLanguage(lang) {
		return s.cfg.DefaultLanguage
	}
	return lang
}

func (s *Service) inviteURL(lang, token string) string {
	return s.cfg.PublicBaseURL + "/" + s.language(lang) + "/invite?token=" + url.QueryEscape(token)
}

func profileOrID(profiles map[string]account.Profile, id string) account.Profile {
	if profile, ok := profiles[id]; ok {
		return profile
	}
	return account.Profile{ID: id}
}

func generateToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
