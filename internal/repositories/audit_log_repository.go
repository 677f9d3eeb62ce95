package repositories

import (
	"context"
	"fmt"
	"strings"

	"spectres-crm/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditLogRepository struct {
	DB *pgxpool.Pool
}

func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

// Append inserts an audit entry. Entries are never updated or deleted.
func (r *AuditLogRepository) Append(ctx context.Context, e *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			action, table_name, record_id, old_values, new_values,
			user_id, details, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	return r.DB.QueryRow(ctx, query,
		e.Action, e.TableName, e.RecordID, nullJSON(e.OldValues), nullJSON(e.NewValues),
		e.UserID, e.Details, e.Source,
	).Scan(&e.ID, &e.CreatedAt)
}

// List returns audit entries newest first
func (r *AuditLogRepository) List(ctx context.Context, f models.AuditLogFilter) ([]*models.AuditLog, error) {
	var (
		where []string
		args  []any
	)
	if f.Action != "" {
		args = append(args, f.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.RecordID != "" {
		args = append(args, f.RecordID)
		where = append(where, fmt.Sprintf("record_id = $%d", len(args)))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}

	query := `
		SELECT id, action, table_name, record_id, old_values, new_values,
		       user_id, COALESCE(details, ''), source, created_at
		FROM audit_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var (
			e        models.AuditLog
			oldValue []byte
			newValue []byte
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.TableName, &e.RecordID, &oldValue, &newValue,
			&e.UserID, &e.Details, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.OldValues = oldValue
		e.NewValues = newValue
		logs = append(logs, &e)
	}
	return logs, rows.Err()
}

// nullJSON keeps empty snapshots as SQL NULL instead of an invalid jsonb literal
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
