package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"spectres-crm/internal/cache"
	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"
	"spectres-crm/internal/timeutil"

	"github.com/google/uuid"
)

const clientListTTL = 2 * time.Minute

type ClientRepo interface {
	Create(ctx context.Context, c *models.Client) error
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, f models.ClientFilter) ([]*models.Client, error)
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status models.ClientStatus, at time.Time) error
	AssignOwner(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) error
	RecordPhoneClick(ctx context.Context, id uuid.UUID, at time.Time) error
}

type AuditAppender interface {
	Append(ctx context.Context, e *models.AuditLog) error
}

// AssignmentNotifier is told when a client gets a new owner
type AssignmentNotifier interface {
	ClientAssigned(ctx context.Context, client models.Client, by uuid.UUID)
}

type ClientService struct {
	Repo     ClientRepo
	Audit    AuditAppender
	notifier AssignmentNotifier
	lists    *cache.Typed[[]*models.Client]
	now      func() time.Time
}

func NewClientService(repo ClientRepo, audit AuditAppender, store cache.Store) *ClientService {
	return &ClientService{
		Repo:  repo,
		Audit: audit,
		lists: cache.NewTyped[[]*models.Client](store, "clients:list:"),
		now:   timeutil.Now,
	}
}

func (s *ClientService) SetNotifier(n AssignmentNotifier) {
	s.notifier = n
}

// SetClock overrides the time source used to stamp status changes
func (s *ClientService) SetClock(now func() time.Time) {
	s.now = now
}

// canSee reports whether the actor may read the client. Roles without
// view_all_clients only see clients they own.
func canSee(actor Actor, c *models.Client) bool {
	if actor.Can(permissions.ViewAllClients) {
		return true
	}
	return c.OwnerID != nil && *c.OwnerID == actor.ID
}

func (s *ClientService) ListClients(ctx context.Context, actor Actor, f models.ClientFilter) ([]*models.Client, error) {
	if f.Status != "" && !models.IsValidClientStatus(f.Status) {
		return nil, ErrInvalidStatus
	}
	if !actor.Can(permissions.ViewAllClients) {
		id := actor.ID
		f.OwnerID = &id
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	owner := ""
	if f.OwnerID != nil {
		owner = f.OwnerID.String()
	}
	key := fmt.Sprintf("%s|%s|%s|%d|%d", f.Status, owner, strings.ToLower(f.Search), f.Limit, f.Offset)

	clients, err := s.lists.GetOrLoad(ctx, key, clientListTTL, func(ctx context.Context) ([]*models.Client, error) {
		return s.Repo.List(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []*models.Client{}
	}
	return clients, nil
}

func (s *ClientService) GetClient(ctx context.Context, actor Actor, id uuid.UUID) (*models.Client, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	if !canSee(actor, c) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *ClientService) CreateClient(ctx context.Context, actor Actor, req *models.CreateClientRequest) (*models.Client, error) {
	if !actor.Can(permissions.EditClients) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}

	status := models.StatusCanvas
	if req.Status != "" {
		if !models.IsValidClientStatus(req.Status) {
			return nil, ErrInvalidStatus
		}
		status = models.ClientStatus(req.Status)
	}

	owner := actor.ID
	if req.OwnerID != nil && actor.Can(permissions.AssignOwner) {
		owner = *req.OwnerID
	}
	createdBy := actor.ID

	c := &models.Client{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Email:       req.Email,
		Notes:       req.Notes,
		Status:      status,
		OwnerID:     &owner,
		CreatedBy:   &createdBy,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, models.ActionClientCreate, c.ID, nil, map[string]any{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"status":     c.Status,
		"owner_id":   c.OwnerID,
	}, "Utworzono klienta")
	s.invalidate(ctx)
	return c, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, actor Actor, id uuid.UUID, req *models.UpdateClientRequest) (*models.Client, error) {
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}
	old, err := s.GetClient(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.Can(permissions.EditClients) {
		return nil, ErrForbidden
	}

	updated := *old
	updated.FirstName = strings.TrimSpace(req.FirstName)
	updated.LastName = strings.TrimSpace(req.LastName)
	updated.CompanyName = req.CompanyName
	updated.Phone = req.Phone
	updated.Email = req.Email
	updated.Notes = req.Notes

	if err := s.Repo.Update(ctx, &updated); err != nil {
		return nil, repoErr(err)
	}

	s.audit(ctx, actor, models.ActionClientUpdate, id, contactSnapshot(old), contactSnapshot(&updated), "Zaktualizowano dane klienta")
	s.invalidate(ctx)
	return s.GetClient(ctx, actor, id)
}

func (s *ClientService) DeleteClient(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.Can(permissions.DeleteClients) {
		return ErrForbidden
	}
	old, err := s.Repo.Get(ctx, id)
	if err != nil {
		return repoErr(err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return repoErr(err)
	}

	s.audit(ctx, actor, models.ActionClientDelete, id, contactSnapshot(old), nil, "Usunięto klienta")
	s.invalidate(ctx)
	return nil
}

// ChangeStatus moves a client to a new status and stamps status_changed_at.
// Setting the current status again is a no-op.
func (s *ClientService) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, req *models.ChangeStatusRequest) (*models.Client, error) {
	if !models.IsValidClientStatus(req.Status) {
		return nil, ErrInvalidStatus
	}
	c, err := s.GetClient(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	status := models.ClientStatus(req.Status)
	if c.Status == status {
		return c, nil
	}

	now := s.now()
	if err := s.Repo.ChangeStatus(ctx, id, status, now); err != nil {
		return nil, repoErr(err)
	}

	s.audit(ctx, actor, models.ActionStatusChange, id,
		map[string]any{"status": c.Status, "status_changed_at": c.StatusChangedAt},
		map[string]any{"status": status, "status_changed_at": now},
		fmt.Sprintf("Zmiana statusu: %s → %s", c.Status, status))
	s.invalidate(ctx)

	c.Status = status
	c.StatusChangedAt = &now
	return c, nil
}

// AssignOwner sets or clears the owner of a client
func (s *ClientService) AssignOwner(ctx context.Context, actor Actor, id uuid.UUID, req *models.AssignOwnerRequest) (*models.Client, error) {
	if !actor.Can(permissions.AssignOwner) {
		return nil, ErrForbidden
	}
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	if err := s.Repo.AssignOwner(ctx, id, req.OwnerID); err != nil {
		return nil, repoErr(err)
	}

	s.audit(ctx, actor, models.ActionOwnerChange, id,
		map[string]any{"owner_id": c.OwnerID},
		map[string]any{"owner_id": req.OwnerID},
		"Zmiana opiekuna klienta")
	s.invalidate(ctx)

	c.OwnerID = req.OwnerID
	if s.notifier != nil && req.OwnerID != nil && *req.OwnerID != actor.ID {
		s.notifier.ClientAssigned(ctx, *c, actor.ID)
	}
	return c, nil
}

// RecordPhoneClick stores the latest contact attempt, which keeps the
// automated owner reset away from actively worked clients
func (s *ClientService) RecordPhoneClick(ctx context.Context, actor Actor, id uuid.UUID) (*models.Client, error) {
	c, err := s.GetClient(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.Repo.RecordPhoneClick(ctx, id, now); err != nil {
		return nil, repoErr(err)
	}
	s.invalidate(ctx)
	c.LastPhoneClick = &now
	return c, nil
}

// InvalidateLists drops cached client lists after writes made elsewhere
func (s *ClientService) InvalidateLists(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *ClientService) invalidate(ctx context.Context) {
	if err := s.lists.Invalidate(ctx); err != nil {
		log.Printf("[ClientService] Failed to invalidate client list cache: %v", err)
	}
}

// audit writes an API-sourced entry. Failures are logged and never fail the request.
func (s *ClientService) audit(ctx context.Context, actor Actor, action string, id uuid.UUID, oldValues, newValues map[string]any, details string) {
	if s.Audit == nil {
		return
	}
	userID := actor.ID
	entry := &models.AuditLog{
		Action:    action,
		TableName: "clients",
		RecordID:  id.String(),
		OldValues: models.Snapshot(oldValues),
		NewValues: models.Snapshot(newValues),
		UserID:    &userID,
		Details:   details,
		Source:    models.SourceAPI,
	}
	if err := s.Audit.Append(ctx, entry); err != nil {
		log.Printf("[ClientService] Audit write failed for client %s (%s): %v", id, action, err)
	}
}

func contactSnapshot(c *models.Client) map[string]any {
	return map[string]any{
		"first_name":   c.FirstName,
		"last_name":    c.LastName,
		"company_name": c.CompanyName,
		"phone":        c.Phone,
		"email":        c.Email,
		"notes":        c.Notes,
	}
}
