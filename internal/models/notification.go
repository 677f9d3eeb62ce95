package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds
const (
	NotificationOwnerReleased = "owner_released"
	NotificationStatusChanged = "status_changed"
	NotificationAssigned      = "client_assigned"
)

type Notification struct {
	ID        int64      `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}
