package repositories

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"spectres-crm/internal/database"
	"spectres-crm/internal/models"
	"spectres-crm/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// openTestPool connects to TEST_DATABASE_URL and applies the embedded schema.
// Integration tests are skipped in short mode or when no database is configured.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.NewMigratorWithFS(pool, migrations.FS, ".").RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func seedOwner(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Email:        "lifecycle-" + uuid.NewString() + "@spectres.pl",
		FullName:     "Test Owner",
		PasswordHash: "x",
		Role:         "pracownik",
	}
	if err := NewUserRepository(pool).Create(ctx, u); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	t.Cleanup(func() { pool.Exec(context.Background(), `DELETE FROM users WHERE id=$1`, u.ID) })
	return u
}

// seedClient inserts a client and then forces its status timestamp (nil stores NULL)
func seedClient(t *testing.T, repo *ClientRepository, status models.ClientStatus, changedAt *time.Time, owner uuid.UUID) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	c := &models.Client{FirstName: "Seed", LastName: string(status), Status: status, OwnerID: &owner}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := repo.DB.Exec(ctx, `UPDATE clients SET status_changed_at=$2 WHERE id=$1`, c.ID, changedAt); err != nil {
		t.Fatalf("set status_changed_at: %v", err)
	}
	t.Cleanup(func() { repo.DB.Exec(context.Background(), `DELETE FROM clients WHERE id=$1`, c.ID) })
	return c.ID
}

func TestListCanvasCandidates_Filter(t *testing.T) {
	pool := openTestPool(t)
	repo := NewClientRepository(pool)
	owner := seedOwner(t, pool)

	old := time.Now().Add(-72 * time.Hour)
	canvas := seedClient(t, repo, models.StatusCanvas, &old, owner.ID)
	sale := seedClient(t, repo, models.StatusSale, &old, owner.ID)
	undated := seedClient(t, repo, models.StatusCanvas, nil, owner.ID)

	candidates, err := repo.ListCanvasCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCanvasCandidates: %v", err)
	}

	// The database may hold other rows; only the seeded ids matter here
	seen := map[uuid.UUID]bool{}
	for _, c := range candidates {
		seen[c.ID] = true
		if c.Status != models.StatusCanvas || c.StatusChangedAt == nil {
			t.Errorf("candidate %s has status %q, changed_at %v", c.ID, c.Status, c.StatusChangedAt)
		}
	}
	if !seen[canvas] {
		t.Error("canvas client with a status timestamp must be a candidate")
	}
	if seen[sale] {
		t.Error("non-canvas client must be excluded")
	}
	if seen[undated] {
		t.Error("canvas client without status_changed_at must be excluded")
	}
}

func TestApplyLifecycleUpdate_MergedWrite(t *testing.T) {
	pool := openTestPool(t)
	repo := NewClientRepository(pool)
	owner := seedOwner(t, pool)
	ctx := context.Background()

	old := time.Now().Add(-6 * 24 * time.Hour)
	both := seedClient(t, repo, models.StatusCanvas, &old, owner.ID)
	statusOnly := seedClient(t, repo, models.StatusCanvas, &old, owner.ID)

	now := time.Now().Truncate(time.Microsecond)
	antysale := models.StatusAntysale
	err := repo.ApplyLifecycleUpdate(ctx, both, models.ClientLifecycleUpdate{
		Status: &antysale, StatusChangedAt: &now, ClearOwner: true,
	})
	if err != nil {
		t.Fatalf("ApplyLifecycleUpdate: %v", err)
	}

	got, err := repo.Get(ctx, both)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusAntysale {
		t.Errorf("status = %q", got.Status)
	}
	if got.StatusChangedAt == nil || !got.StatusChangedAt.Equal(now) {
		t.Errorf("status_changed_at = %v, want %v", got.StatusChangedAt, now)
	}
	if got.OwnerID != nil {
		t.Errorf("owner should be cleared, got %v", got.OwnerID)
	}

	// Without ClearOwner the owner survives the same update
	if err := repo.ApplyLifecycleUpdate(ctx, statusOnly, models.ClientLifecycleUpdate{
		Status: &antysale, StatusChangedAt: &now,
	}); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Get(ctx, statusOnly)
	if err != nil {
		t.Fatal(err)
	}
	if got.OwnerID == nil || *got.OwnerID != owner.ID {
		t.Errorf("owner = %v, want %s", got.OwnerID, owner.ID)
	}

	// Clearing only the owner leaves status and timestamp alone
	ownerOnly := seedClient(t, repo, models.StatusCanvas, &old, owner.ID)
	if err := repo.ApplyLifecycleUpdate(ctx, ownerOnly, models.ClientLifecycleUpdate{ClearOwner: true}); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Get(ctx, ownerOnly)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusCanvas || got.StatusChangedAt == nil || !got.StatusChangedAt.Equal(old.Truncate(time.Microsecond)) {
		t.Errorf("status fields changed: %q %v", got.Status, got.StatusChangedAt)
	}
	if got.OwnerID != nil {
		t.Errorf("owner should be cleared, got %v", got.OwnerID)
	}

	if err := repo.ApplyLifecycleUpdate(ctx, uuid.New(), models.ClientLifecycleUpdate{ClearOwner: true}); err != ErrNotFound {
		t.Errorf("missing client: err = %v, want ErrNotFound", err)
	}
}

func TestAuditLogAppend_NullSnapshots(t *testing.T) {
	pool := openTestPool(t)
	repo := NewAuditLogRepository(pool)
	ctx := context.Background()

	recordID := uuid.NewString()
	t.Cleanup(func() { pool.Exec(context.Background(), `DELETE FROM audit_logs WHERE record_id=$1`, recordID) })

	entry := &models.AuditLog{
		Action:    models.ActionAutoOwnerReset,
		TableName: "clients",
		RecordID:  recordID,
		OldValues: models.Snapshot(nil),
		NewValues: models.Snapshot(map[string]any{"owner_id": nil}),
		Source:    models.SourceCron,
	}
	if err := repo.Append(ctx, entry); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.ID == 0 {
		t.Error("expected generated id")
	}

	var oldIsNull bool
	var newValue []byte
	if err := pool.QueryRow(ctx,
		`SELECT old_values IS NULL, new_values FROM audit_logs WHERE id=$1`, entry.ID,
	).Scan(&oldIsNull, &newValue); err != nil {
		t.Fatal(err)
	}
	if !oldIsNull {
		t.Error("empty snapshot must be stored as SQL NULL")
	}
	var decoded map[string]any
	if err := json.Unmarshal(newValue, &decoded); err != nil {
		t.Fatalf("new_values is not json: %v", err)
	}
	if v, ok := decoded["owner_id"]; !ok || v != nil {
		t.Errorf("new_values = %s", newValue)
	}

	logs, err := repo.List(ctx, models.AuditLogFilter{RecordID: recordID})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].UserID != nil || logs[0].Source != models.SourceCron {
		t.Errorf("listed %+v", logs)
	}
}
