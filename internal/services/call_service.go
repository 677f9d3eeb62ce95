package services

import (
	"context"
	"fmt"

	"spectres-crm/internal/models"

	"github.com/google/uuid"
)

type CallRepo interface {
	Create(ctx context.Context, c *models.Call) error
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Call, error)
}

type CallService struct {
	Repo    CallRepo
	Clients *ClientService
}

func NewCallService(repo CallRepo, clients *ClientService) *CallService {
	return &CallService{Repo: repo, Clients: clients}
}

// RecordCall logs a call; the repository also bumps the client's last_phone_click
func (s *CallService) RecordCall(ctx context.Context, actor Actor, clientID uuid.UUID, req *models.CreateCallRequest) (*models.Call, error) {
	if !models.IsValidCallOutcome(req.Outcome) {
		return nil, fmt.Errorf("%w: unknown call outcome %q", ErrInvalidInput, req.Outcome)
	}
	if req.DurationSeconds < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}
	if _, err := s.Clients.GetClient(ctx, actor, clientID); err != nil {
		return nil, err
	}

	call := &models.Call{
		ClientID:        clientID,
		UserID:          actor.ID,
		Outcome:         req.Outcome,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
	}
	if err := s.Repo.Create(ctx, call); err != nil {
		return nil, repoErr(err)
	}
	s.Clients.InvalidateLists(ctx)
	return call, nil
}

func (s *CallService) ListCalls(ctx context.Context, actor Actor, clientID uuid.UUID) ([]*models.Call, error) {
	if _, err := s.Clients.GetClient(ctx, actor, clientID); err != nil {
		return nil, err
	}
	calls, err := s.Repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if calls == nil {
		calls = []*models.Call{}
	}
	return calls, nil
}
