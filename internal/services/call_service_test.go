package services

import (
	"context"
	"errors"
	"testing"

	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"

	"github.com/google/uuid"
)

func TestRecordCall(t *testing.T) {
	worker := actorWith(permissions.RolePracownik)
	c := ownedClient(worker.ID, models.StatusCanvas)
	calls := &fakeCallRepo{}
	svc := NewCallService(calls, newClientService(newFakeClientRepo(c), &fakeAudit{}))
	ctx := context.Background()

	call, err := svc.RecordCall(ctx, worker, c.ID, &models.CreateCallRequest{Outcome: models.CallOutcomeAnswered, DurationSeconds: 95})
	if err != nil {
		t.Fatalf("RecordCall: %v", err)
	}
	if call.UserID != worker.ID || call.ClientID != c.ID {
		t.Errorf("unexpected call %+v", call)
	}

	list, err := svc.ListCalls(ctx, worker, c.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListCalls = %d, %v", len(list), err)
	}

	if _, err := svc.RecordCall(ctx, worker, c.ID, &models.CreateCallRequest{Outcome: "hung_up"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad outcome: err = %v", err)
	}
	if _, err := svc.RecordCall(ctx, worker, c.ID, &models.CreateCallRequest{Outcome: models.CallOutcomeNoAnswer, DurationSeconds: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative duration: err = %v", err)
	}
	if _, err := svc.RecordCall(ctx, actorWith(permissions.RolePracownik), c.ID, &models.CreateCallRequest{Outcome: models.CallOutcomeNoAnswer}); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign client: err = %v", err)
	}
	if _, err := svc.ListCalls(ctx, worker, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing client: err = %v", err)
	}
}
