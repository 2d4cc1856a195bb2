package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedledger/pkg/logger"
)

const defaultListLimit = 50

type Service struct {
	repo  Repository
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Notify composes and stores the message for event. It never fails the
// caller: errors and panics are logged and dropped.
func (s *Service) Notify(ctx context.Context, event Event) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.log.Error("notifications.notify: recovered panic", "panic", fmt.Sprint(recovered), "type", event.Type, "recipient_id", event.RecipientID)
		}
	}()

	message := Compose(event.Type, event.Language, event.Payload)
	notification := Notification{
		ID:        s.newID(),
		UserID:    event.RecipientID,
		Title:     message.Title,
		Body:      message.Body,
		Type:      event.Type,
		CreatedAt: s.now().UTC(),
	}
	if event.RelatedID != "" {
		related := event.RelatedID
		notification.RelatedID = &related
	}

	// The triggering operation has already committed; its cancellation must
	// not drop the notification.
	if err := s.repo.Create(context.WithoutCancel(ctx), &notification); err != nil {
		s.log.InternalError("notifications.notify: persist failed", err, "type", event.Type, "recipient_id", event.RecipientID, "related_id", event.RelatedID)
		return
	}

	s.log.Debug("notifications.notify: stored", "type", event.Type, "recipient_id", event.RecipientID, "notification_id", notification.ID)
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Notification, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = defaultListLimit
	}
	return s.repo.List(ctx, userID, filter)
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Notification, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Type == "" {
		input.Type = TypeGeneral
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidType
	}
	input.RelatedID = strings.TrimSpace(input.RelatedID)
	if input.RelatedID != "" {
		if _, err := uuid.Parse(input.RelatedID); err != nil || len(input.RelatedID) != 36 {
			return nil, ErrInvalidRelatedID
		}
	}

	notification := Notification{
		ID:        s.newID(),
		UserID:    userID,
		Title:     input.Title,
		Body:      strings.TrimSpace(input.Body),
		Type:      input.Type,
		CreatedAt: s.now().UTC(),
	}
	if input.RelatedID != "" {
		related := input.RelatedID
		notification.RelatedID = &related
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (s *Service) SetRead(ctx context.Context, id, userID string, read bool) error {
	updated, err := s.repo.SetRead(ctx, id, userID, read)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
