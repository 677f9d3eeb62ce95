// Package lifecycle implements the scheduled status automation over client
// records parked in the canvas stage.
package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"spectres-crm/internal/models"
	"spectres-crm/internal/timeutil"

	"github.com/google/uuid"
)

// ClientStore is the record-query and record-update capability of the data store.
type ClientStore interface {
	// ListCanvasCandidates returns clients with status canvas and a non-null status_changed_at.
	ListCanvasCandidates(ctx context.Context) ([]models.Client, error)
	ApplyLifecycleUpdate(ctx context.Context, id uuid.UUID, upd models.ClientLifecycleUpdate) error
}

// AuditWriter is the insert-only audit capability.
type AuditWriter interface {
	Append(ctx context.Context, entry *models.AuditLog) error
}

// Notifier is told about clients whose owner was released. Optional.
type Notifier interface {
	OwnerReleased(ctx context.Context, client models.Client, daysElapsed float64)
}

// Thresholds are the dwell times, in days, after which the rules fire.
type Thresholds struct {
	StatusAfter     float64
	OwnerResetAfter float64
}

// DefaultThresholds: antysale after 2 days, owner release after 5.
var DefaultThresholds = Thresholds{StatusAfter: 2, OwnerResetAfter: 5}

// ClientError is a per-client failure that did not stop the run.
type ClientError struct {
	ClientID uuid.UUID `json:"clientId"`
	Error    string    `json:"error"`
}

// RunResult is the aggregate summary returned to the caller.
type RunResult struct {
	Processed     int           `json:"processed"`
	StatusChanged int           `json:"statusChanged"`
	OwnersReset   int           `json:"ownersReset"`
	Errors        []ClientError `json:"errors"`
	StartedAt     time.Time     `json:"-"`
	FinishedAt    time.Time     `json:"-"`
}

type Job struct {
	store      ClientStore
	audit      AuditWriter
	notifier   Notifier
	thresholds Thresholds
	now        func() time.Time
}

func NewJob(store ClientStore, audit AuditWriter, thresholds Thresholds) *Job {
	if thresholds.StatusAfter <= 0 {
		thresholds.StatusAfter = DefaultThresholds.StatusAfter
	}
	if thresholds.OwnerResetAfter <= 0 {
		thresholds.OwnerResetAfter = DefaultThresholds.OwnerResetAfter
	}
	return &Job{
		store:      store,
		audit:      audit,
		thresholds: thresholds,
		now:        timeutil.Now,
	}
}

// SetNotifier wires the owner-release notifier
func (j *Job) SetNotifier(n Notifier) {
	j.notifier = n
}

// SetClock overrides the time source
func (j *Job) SetClock(now func() time.Time) {
	j.now = now
}

// decision is what the rules staged for one client
type decision struct {
	days         float64
	escalate     bool
	releaseOwner bool
}

// evaluate applies both rules independently. Only the fetch filter (status canvas)
// gates them; once a client leaves canvas neither rule fires again.
func (j *Job) evaluate(c models.Client, now time.Time) decision {
	d := decision{days: timeutil.DaysBetween(*c.StatusChangedAt, now)}

	if d.days >= j.thresholds.StatusAfter {
		d.escalate = true
	}

	// A contact recorded before the status change does not count under the new status.
	noContactSinceChange := c.LastPhoneClick == nil || c.LastPhoneClick.Before(*c.StatusChangedAt)
	if d.days >= j.thresholds.OwnerResetAfter && noContactSinceChange {
		d.releaseOwner = true
	}
	return d
}

// Run re-evaluates all canvas clients once. A failure to fetch candidates aborts
// the run; per-client update failures are collected in the result.
func (j *Job) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		StartedAt: j.now(),
		Errors:    []ClientError{},
	}

	clients, err := j.store.ListCanvasCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch canvas clients: %w", err)
	}

	for _, c := range clients {
		result.Processed++

		if c.Status != models.StatusCanvas || c.StatusChangedAt == nil {
			continue
		}

		now := j.now()
		d := j.evaluate(c, now)

		var upd models.ClientLifecycleUpdate
		if d.escalate {
			st := models.StatusAntysale
			upd.Status = &st
			upd.StatusChangedAt = &now
		}
		upd.ClearOwner = d.releaseOwner
		if upd.IsEmpty() {
			continue
		}

		if err := j.store.ApplyLifecycleUpdate(ctx, c.ID, upd); err != nil {
			log.Printf("[Lifecycle] Failed to update client %s: %v", c.ID, err)
			result.Errors = append(result.Errors, ClientError{ClientID: c.ID, Error: err.Error()})
			continue
		}

		if d.escalate {
			result.StatusChanged++
			j.writeAudit(ctx, statusAudit(c, d.days))
		}
		if d.releaseOwner {
			result.OwnersReset++
			j.writeAudit(ctx, ownerAudit(c, d.days))
			if j.notifier != nil && c.OwnerID != nil {
				j.notifier.OwnerReleased(ctx, c, d.days)
			}
		}
	}

	result.FinishedAt = j.now()
	return result, nil
}

// writeAudit is best-effort: failures are logged and never counted as run errors.
func (j *Job) writeAudit(ctx context.Context, entry *models.AuditLog) {
	if j.audit == nil {
		return
	}
	if err := j.audit.Append(ctx, entry); err != nil {
		log.Printf("[Lifecycle] Audit write failed for %s on client %s: %v", entry.Action, entry.RecordID, err)
	}
}

func statusAudit(c models.Client, days float64) *models.AuditLog {
	return &models.AuditLog{
		Action:    models.ActionAutoStatusChange,
		TableName: "clients",
		RecordID:  c.ID.String(),
		OldValues: models.Snapshot(map[string]any{"status": c.Status}),
		NewValues: models.Snapshot(map[string]any{"status": models.StatusAntysale}),
		Details:   fmt.Sprintf("Automatyczna zmiana statusu canvas -> antysale po %.1f dniach", days),
		Source:    models.SourceCron,
	}
}

func ownerAudit(c models.Client, days float64) *models.AuditLog {
	var oldOwner any
	if c.OwnerID != nil {
		oldOwner = c.OwnerID.String()
	}
	return &models.AuditLog{
		Action:    models.ActionAutoOwnerReset,
		TableName: "clients",
		RecordID:  c.ID.String(),
		OldValues: models.Snapshot(map[string]any{"owner_id": oldOwner}),
		NewValues: models.Snapshot(map[string]any{"owner_id": nil}),
		Details:   fmt.Sprintf("Automatyczne zwolnienie opiekuna po %.1f dniach bez kontaktu", days),
		Source:    models.SourceCron,
	}
}
