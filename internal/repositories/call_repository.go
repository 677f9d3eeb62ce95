package repositories

import (
	"context"
	"fmt"
	"time"

	"spectres-crm/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CallRepository struct {
	DB *pgxpool.Pool
}

func NewCallRepository(db *pgxpool.Pool) *CallRepository {
	return &CallRepository{DB: db}
}

// Create logs a call and bumps the client's last_phone_click in one transaction
func (r *CallRepository) Create(ctx context.Context, c *models.Call) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO calls(client_id, user_id, outcome, duration_seconds, notes)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		c.ClientID, c.UserID, c.Outcome, c.DurationSeconds, c.Notes,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE clients SET last_phone_click=$1, updated_at=NOW() WHERE id=$2`, c.CreatedAt, c.ClientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *CallRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Call, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT k.id, k.client_id, k.user_id, COALESCE(u.full_name, ''), k.outcome,
                k.duration_seconds, COALESCE(k.notes, ''), k.created_at
         FROM calls k
         LEFT JOIN users u ON u.id = k.user_id
         WHERE k.client_id=$1 ORDER BY k.created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calls []*models.Call
	for rows.Next() {
		var call models.Call
		err := rows.Scan(&call.ID, &call.ClientID, &call.UserID, &call.UserName, &call.Outcome,
			&call.DurationSeconds, &call.Notes, &call.CreatedAt)
		if err != nil {
			return nil, err
		}
		calls = append(calls, &call)
	}
	return calls, rows.Err()
}

// CountSince returns the number of calls logged since the given time
func (r *CallRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM calls WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}
