package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusCount is one row of the status breakdown
type StatusCount struct {
	Status ClientStatus `json:"status"`
	Count  int          `json:"count"`
}

// OwnerSummary aggregates the pipeline of a single owner
type OwnerSummary struct {
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	OwnerName string     `json:"owner_name"`
	Clients   int        `json:"clients"`
	Canvas    int        `json:"canvas"`
	Sales     int        `json:"sales"`
	Calls     int        `json:"calls"`
}

// ReportSummary is the dashboard report payload
type ReportSummary struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	PeriodDays   int            `json:"period_days"`
	TotalClients int            `json:"total_clients"`
	ByStatus     []StatusCount  `json:"by_status"`
	ByOwner      []OwnerSummary `json:"by_owner"`
	TotalCalls   int            `json:"total_calls"`
}
