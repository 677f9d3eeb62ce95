package services

import (
	"context"
	"fmt"
	"log"

	"spectres-crm/internal/models"

	"github.com/google/uuid"
)

type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
}

// Publisher pushes a payload to a user's live connections
type Publisher interface {
	Publish(userID uuid.UUID, v any)
}

// NotificationService persists notifications and fans them out to websocket
// subscribers. Delivery failures are logged and never reach the caller.
type NotificationService struct {
	Repo NotificationRepo
	Hub  Publisher
}

func NewNotificationService(repo NotificationRepo, hub Publisher) *NotificationService {
	return &NotificationService{Repo: repo, Hub: hub}
}

// OwnerReleased tells the former owner that an idle client went back to the pool
func (s *NotificationService) OwnerReleased(ctx context.Context, client models.Client, daysElapsed float64) {
	if client.OwnerID == nil {
		return
	}
	id := client.ID
	s.deliver(ctx, &models.Notification{
		UserID:   *client.OwnerID,
		Kind:     models.NotificationOwnerReleased,
		Title:    "Klient wrócił do puli",
		Message:  fmt.Sprintf("%s: brak kontaktu od %.0f dni, opiekun został zwolniony", client.DisplayName(), daysElapsed),
		ClientID: &id,
	})
}

// ClientAssigned tells the new owner about the assignment
func (s *NotificationService) ClientAssigned(ctx context.Context, client models.Client, by uuid.UUID) {
	if client.OwnerID == nil {
		return
	}
	id := client.ID
	s.deliver(ctx, &models.Notification{
		UserID:   *client.OwnerID,
		Kind:     models.NotificationAssigned,
		Title:    "Nowy klient",
		Message:  fmt.Sprintf("Przypisano Ci klienta %s", client.DisplayName()),
		ClientID: &id,
	})
}

func (s *NotificationService) deliver(ctx context.Context, n *models.Notification) {
	if err := s.Repo.Create(ctx, n); err != nil {
		log.Printf("[Notify] Failed to store %s notification for user %s: %v", n.Kind, n.UserID, err)
		return
	}
	if s.Hub != nil {
		s.Hub.Publish(n.UserID, n)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*models.Notification, error) {
	items, err := s.Repo.ListForUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Notification{}
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	return repoErr(s.Repo.MarkRead(ctx, id, userID))
}
