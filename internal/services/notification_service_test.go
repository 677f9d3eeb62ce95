package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"spectres-crm/internal/models"

	"github.com/google/uuid"
)

func TestOwnerReleased_PersistsAndPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := &fakePublisher{}
	svc := NewNotificationService(repo, hub)
	owner := uuid.New()
	c := models.Client{ID: uuid.New(), FirstName: "Piotr", LastName: "Zieliński", OwnerID: &owner}

	svc.OwnerReleased(context.Background(), c, 5.4)

	if len(repo.items) != 1 {
		t.Fatalf("stored = %d, want 1", len(repo.items))
	}
	n := repo.items[0]
	if n.UserID != owner || n.Kind != models.NotificationOwnerReleased || *n.ClientID != c.ID {
		t.Errorf("unexpected notification %+v", n)
	}
	if !strings.Contains(n.Message, "Piotr Zieliński") || !strings.Contains(n.Message, "5 dni") {
		t.Errorf("message = %q", n.Message)
	}
	if len(hub.sent) != 1 || hub.sent[0].userID != owner {
		t.Errorf("published = %+v", hub.sent)
	}
}

func TestOwnerReleased_NoOwnerOrStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := &fakePublisher{}
	svc := NewNotificationService(repo, hub)

	svc.OwnerReleased(context.Background(), models.Client{ID: uuid.New()}, 6)
	if len(repo.items) != 0 || len(hub.sent) != 0 {
		t.Error("client without owner must not notify anyone")
	}

	repo.createErr = errBoom
	owner := uuid.New()
	svc.OwnerReleased(context.Background(), models.Client{ID: uuid.New(), OwnerID: &owner}, 6)
	if len(hub.sent) != 0 {
		t.Error("unsaved notification must not be published")
	}
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)
	owner := uuid.New()
	svc.ClientAssigned(context.Background(), models.Client{ID: uuid.New(), FirstName: "Ala", OwnerID: &owner}, uuid.New())

	unread, _ := svc.List(context.Background(), owner, true, 10)
	if len(unread) != 1 {
		t.Fatalf("unread = %d", len(unread))
	}
	if err := svc.MarkRead(context.Background(), unread[0].ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign user: err = %v", err)
	}
	if err := svc.MarkRead(context.Background(), unread[0].ID, owner); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	unread, _ = svc.List(context.Background(), owner, true, 10)
	if len(unread) != 0 {
		t.Errorf("unread after mark = %d", len(unread))
	}
}
