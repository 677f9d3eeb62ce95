package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audit action tags
const (
	ActionAutoStatusChange = "AUTO_STATUS_CHANGE"
	ActionAutoOwnerReset   = "AUTO_OWNER_RESET"
	ActionStatusChange     = "STATUS_CHANGE"
	ActionOwnerChange      = "OWNER_CHANGE"
	ActionClientCreate     = "CLIENT_CREATE"
	ActionClientUpdate     = "CLIENT_UPDATE"
	ActionClientDelete     = "CLIENT_DELETE"
)

// Origin markers
const (
	SourceCron = "cron"
	SourceAPI  = "api"
)

// AuditLog is an append-only record of a single mutation.
// UserID is nil for system-originated changes.
type AuditLog struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	TableName string          `json:"table_name"`
	RecordID  string          `json:"record_id"`
	OldValues json.RawMessage `json:"old_values,omitempty"`
	NewValues json.RawMessage `json:"new_values,omitempty"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	Details   string          `json:"details"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditLogFilter narrows audit log listing
type AuditLogFilter struct {
	Action   string
	RecordID string
	Source   string
	Limit    int
}

// Snapshot marshals a partial field map for OldValues/NewValues; an empty
// map yields nil so the column stays NULL.
func Snapshot(fields map[string]any) json.RawMessage {
	if len(fields) == 0 {
		return nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return b
}
