package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"spectres-crm/internal/models"
	"spectres-crm/internal/repositories"

	"github.com/google/uuid"
)

type fakeClientRepo struct {
	mu       sync.Mutex
	clients  map[uuid.UUID]*models.Client
	listHits int
}

func newFakeClientRepo(clients ...*models.Client) *fakeClientRepo {
	r := &fakeClientRepo{clients: map[uuid.UUID]*models.Client{}}
	for _, c := range clients {
		r.clients[c.ID] = c
	}
	return r
}

func (r *fakeClientRepo) Create(ctx context.Context, c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.StatusChangedAt = &now
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) List(ctx context.Context, f models.ClientFilter) ([]*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listHits++
	var out []*models.Client
	for _, c := range r.clients {
		if f.OwnerID != nil && (c.OwnerID == nil || *c.OwnerID != *f.OwnerID) {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeClientRepo) Update(ctx context.Context, c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) ChangeStatus(ctx context.Context, id uuid.UUID, status models.ClientStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Status = status
	c.StatusChangedAt = &at
	return nil
}

func (r *fakeClientRepo) AssignOwner(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.OwnerID = ownerID
	return nil
}

func (r *fakeClientRepo) RecordPhoneClick(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.LastPhoneClick = &at
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	err     error
}

func (a *fakeAudit) Append(ctx context.Context, e *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, e)
	return nil
}

type assignment struct {
	client models.Client
	by     uuid.UUID
}

type fakeAssignNotifier struct {
	calls []assignment
}

func (n *fakeAssignNotifier) ClientAssigned(ctx context.Context, c models.Client, by uuid.UUID) {
	n.calls = append(n.calls, assignment{client: c, by: by})
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeCallRepo struct {
	calls []*models.Call
}

func (r *fakeCallRepo) Create(ctx context.Context, c *models.Call) error {
	c.ID = int64(len(r.calls) + 1)
	c.CreatedAt = time.Now()
	r.calls = append(r.calls, c)
	return nil
}

func (r *fakeCallRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Call, error) {
	var out []*models.Call
	for _, c := range r.calls {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	items     []*models.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = int64(len(r.items) + 1)
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

type published struct {
	userID uuid.UUID
	v      any
}

type fakePublisher struct {
	sent []published
}

func (p *fakePublisher) Publish(userID uuid.UUID, v any) {
	p.sent = append(p.sent, published{userID: userID, v: v})
}

type fakeReportSource struct {
	statusCalls int
	byStatus    []models.StatusCount
	byOwner     []models.OwnerSummary
	since       time.Time
	err         error
}

func (f *fakeReportSource) CountByStatus(ctx context.Context, ownerID *uuid.UUID) ([]models.StatusCount, error) {
	f.statusCalls++
	return f.byStatus, f.err
}

func (f *fakeReportSource) OwnerSummaries(ctx context.Context, since time.Time) ([]models.OwnerSummary, error) {
	f.since = since
	return f.byOwner, nil
}

type fakeCallCounter struct{ n int }

func (f fakeCallCounter) CountSince(ctx context.Context, since time.Time) (int, error) {
	return f.n, nil
}

var errBoom = errors.New("boom")
