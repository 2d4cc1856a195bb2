package notifications

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"wedledger/pkg/logger"
)

type fakeNotificationRepo struct {
	items     map[string]*Notification
	createErr error
	panicOn   bool
	ctxErr    error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: make(map[string]*Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *Notification) error {
	if r.panicOn {
		panic("boom")
	}
	r.ctxErr = ctx.Err()
	if r.createErr != nil {
		return r.createErr
	}
	copied := *notification
	r.items[notification.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Notification, error) {
	result := make([]Notification, 0)
	for _, item := range r.items {
		if item.UserID != userID {
			continue
		}
		if filter.UnreadOnly && item.IsRead {
			continue
		}
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeNotificationRepo) SetRead(ctx context.Context, id, userID string, read bool) (bool, error) {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return false, nil
	}
	item.IsRead = read
	return true, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.UserID == userID && !item.IsRead {
			item.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.UserID == userID && !item.IsRead {
			count++
		}
	}
	return count, nil
}

func newTestService(repo *fakeNotificationRepo) *Service {
	svc := NewService(repo, logger.Nop())
	seq := 0
	svc.newID = func() string {
		seq++
		return "n-" + string(rune('0'+seq))
	}
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestNotifyStoresComposedMessage(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newTestService(repo)

	svc.Notify(context.Background(), Event{
		RecipientID: "viewer",
		Type:        TypeInvite,
		Language:    "en",
		Payload:     Payload{Name: "Jisoo Kim", Permission: "read"},
		RelatedID:   "conn-1",
	})

	item, ok := repo.items["n-1"]
	if !ok {
		t.Fatalf("expected notification stored")
	}
	if item.UserID != "viewer" || item.Type != TypeInvite {
		t.Fatalf("unexpected notification %+v", item)
	}
	if item.Body != "Jisoo Kim invited you to their gift ledger with view only access." {
		t.Fatalf("unexpected body %q", item.Body)
	}
	if item.RelatedID == nil || *item.RelatedID != "conn-1" {
		t.Fatalf("expected related id, got %v", item.RelatedID)
	}
}

func TestNotifySwallowsFailures(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.createErr = errors.New("db down")
	svc := newTestService(repo)

	svc.Notify(context.Background(), Event{RecipientID: "owner", Type: TypeViewed})
	if len(repo.items) != 0 {
		t.Fatalf("expected nothing stored")
	}

	repo.panicOn = true
	svc.Notify(context.Background(), Event{RecipientID: "owner", Type: TypeViewed})
}

func TestNotifyIgnoresCallerCancellation(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newTestService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Notify(ctx, Event{RecipientID: "owner", Type: TypeRevoked})

	if repo.ctxErr != nil {
		t.Fatalf("expected detached context, got %v", repo.ctxErr)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected notification stored")
	}
}

func TestCreateValidates(t *testing.T) {
	svc := newTestService(newFakeNotificationRepo())

	if _, err := svc.Create(context.Background(), "u1", CreateInput{Title: "  "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "u1", CreateInput{Title: "x", Type: "spam"}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}

	if _, err := svc.Create(context.Background(), "u1", CreateInput{Title: "x", RelatedID: "x"}); !errors.Is(err, ErrInvalidRelatedID) {
		t.Fatalf("expected ErrInvalidRelatedID, got %v", err)
	}

	created, err := svc.Create(context.Background(), "u1", CreateInput{Title: "Reminder", Body: "Thank-you cards"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Type != TypeGeneral {
		t.Fatalf("expected general type by default, got %s", created.Type)
	}
	if created.RelatedID != nil {
		t.Fatalf("expected no related id, got %v", *created.RelatedID)
	}

	related := "9f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f"
	linked, err := svc.Create(context.Background(), "u1", CreateInput{Title: "Linked", RelatedID: " " + related + " "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if linked.RelatedID == nil || *linked.RelatedID != related {
		t.Fatalf("expected trimmed related id, got %v", linked.RelatedID)
	}
}

func TestSetReadAndDeleteScopedByUser(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newTestService(repo)
	repo.items["n-9"] = &Notification{ID: "n-9", UserID: "owner", Title: "t", Type: TypeViewed}

	if err := svc.SetRead(context.Background(), "n-9", "intruder", true); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.SetRead(context.Background(), "n-9", "owner", true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.items["n-9"].IsRead {
		t.Fatalf("expected read flag set")
	}

	if err := svc.Delete(context.Background(), "n-9", "intruder"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "n-9", "owner"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.Delete(context.Background(), "n-9", "owner"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected second delete to fail, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newTestService(repo)
	repo.items["a"] = &Notification{ID: "a", UserID: "u1"}
	repo.items["b"] = &Notification{ID: "b", UserID: "u1", IsRead: true}
	repo.items["c"] = &Notification{ID: "c", UserID: "u2"}

	count, err := svc.MarkAllRead(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 updated, got %d", count)
	}
	unread, _ := svc.UnreadCount(context.Background(), "u2")
	if unread != 1 {
		t.Fatalf("expected other user untouched, got %d", unread)
	}
}
