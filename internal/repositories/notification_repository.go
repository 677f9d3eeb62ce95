package repositories

import (
	"context"

	"spectres-crm/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO notifications(user_id, kind, title, message, client_id)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, is_read, created_at`,
		n.UserID, n.Kind, n.Title, n.Message, n.ClientID,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

// ListForUser returns the latest notifications for a user
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, kind, title, message, client_id, is_read, created_at
         FROM notifications
         WHERE user_id=$1 AND (NOT $2 OR is_read = false)
         ORDER BY created_at DESC LIMIT $3`, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.ClientID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkRead flags a notification as read; only its recipient may do so
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
