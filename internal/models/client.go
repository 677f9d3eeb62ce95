package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientStatus is the sales pipeline stage of a client record
type ClientStatus string

const (
	StatusCanvas            ClientStatus = "canvas"
	StatusAntysale          ClientStatus = "antysale"
	StatusBrakKontaktu      ClientStatus = "brak_kontaktu"
	StatusNieZainteresowany ClientStatus = "nie_zainteresowany"
	StatusZdenerwowany      ClientStatus = "zdenerwowany"
	StatusSale              ClientStatus = "sale"
	StatusPaid              ClientStatus = "$$"
)

// AllStatuses lists statuses in pipeline order
var AllStatuses = []ClientStatus{
	StatusCanvas,
	StatusAntysale,
	StatusBrakKontaktu,
	StatusNieZainteresowany,
	StatusZdenerwowany,
	StatusSale,
	StatusPaid,
}

// IsValidClientStatus checks the status against the known set
func IsValidClientStatus(s string) bool {
	for _, st := range AllStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

type Client struct {
	ID              uuid.UUID    `json:"id"`
	FirstName       string       `json:"first_name"`
	LastName        string       `json:"last_name"`
	CompanyName     string       `json:"company_name"`
	Phone           string       `json:"phone"`
	Email           string       `json:"email"`
	Notes           string       `json:"notes"`
	Status          ClientStatus `json:"status"`
	StatusChangedAt *time.Time   `json:"status_changed_at,omitempty"`
	LastPhoneClick  *time.Time   `json:"last_phone_click,omitempty"`
	OwnerID         *uuid.UUID   `json:"owner_id,omitempty"`
	CreatedBy       *uuid.UUID   `json:"created_by,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// DisplayName is used in notifications and reports
func (c *Client) DisplayName() string {
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}
	if name == "" {
		name = c.CompanyName
	}
	return name
}

// ClientLifecycleUpdate is a partial update staged by the status lifecycle job.
// Nil fields are left untouched.
type ClientLifecycleUpdate struct {
	Status          *ClientStatus
	StatusChangedAt *time.Time
	ClearOwner      bool
}

// IsEmpty reports whether nothing was staged
func (u ClientLifecycleUpdate) IsEmpty() bool {
	return u.Status == nil && !u.ClearOwner
}

// ClientFilter narrows client list queries
type ClientFilter struct {
	Status  string
	OwnerID *uuid.UUID
	Search  string
	Limit   int
	Offset  int
}

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	CompanyName string     `json:"company_name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Notes       string     `json:"notes"`
	Status      string     `json:"status"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
}

// UpdateClientRequest represents the request body for updating client details.
// Status and owner have their own endpoints so every transition is audited.
type UpdateClientRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
}

// ChangeStatusRequest represents a manual status transition
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// AssignOwnerRequest assigns or clears (null) the owner
type AssignOwnerRequest struct {
	OwnerID *uuid.UUID `json:"owner_id"`
}
