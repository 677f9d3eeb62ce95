package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spectres-crm/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientColumns = `id, first_name, last_name, COALESCE(company_name, ''), COALESCE(phone, ''),
	COALESCE(email, ''), COALESCE(notes, ''), status, status_changed_at, last_phone_click,
	owner_id, created_by, created_at, updated_at`

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.CompanyName, &c.Phone,
		&c.Email, &c.Notes, &c.Status, &c.StatusChangedAt, &c.LastPhoneClick,
		&c.OwnerID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO clients(id, first_name, last_name, company_name, phone, email, notes,
             status, status_changed_at, owner_id, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9, $10)
         RETURNING status_changed_at, created_at, updated_at`,
		c.ID, c.FirstName, c.LastName, c.CompanyName, c.Phone, c.Email, c.Notes,
		string(c.Status), c.OwnerID, c.CreatedBy,
	).Scan(&c.StatusChangedAt, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ClientRepository) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	c, err := scanClient(r.DB.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// List returns clients matching the filter, newest first
func (r *ClientRepository) List(ctx context.Context, f models.ClientFilter) ([]*models.Client, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR company_name ILIKE $%d OR phone ILIKE $%d)", n, n, n, n))
	}

	query := `SELECT ` + clientColumns + ` FROM clients`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update writes contact details only; status and owner have dedicated methods
func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE clients SET first_name=$1, last_name=$2, company_name=$3, phone=$4, email=$5, notes=$6,
             updated_at=NOW()
         WHERE id=$7`,
		c.FirstName, c.LastName, c.CompanyName, c.Phone, c.Email, c.Notes, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ChangeStatus sets the status and stamps status_changed_at in the same write
func (r *ClientRepository) ChangeStatus(ctx context.Context, id uuid.UUID, status models.ClientStatus, at time.Time) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE clients SET status=$1, status_changed_at=$2, updated_at=NOW() WHERE id=$3`,
		string(status), at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignOwner sets or clears (nil) the owner
func (r *ClientRepository) AssignOwner(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE clients SET owner_id=$1, updated_at=NOW() WHERE id=$2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordPhoneClick stores the time of the latest contact action
func (r *ClientRepository) RecordPhoneClick(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE clients SET last_phone_click=$1, updated_at=NOW() WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCanvasCandidates returns every canvas client with a recorded status change
func (r *ClientRepository) ListCanvasCandidates(ctx context.Context) ([]models.Client, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+clientColumns+` FROM clients
         WHERE status = $1 AND status_changed_at IS NOT NULL
         ORDER BY status_changed_at ASC`, string(models.StatusCanvas))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// ApplyLifecycleUpdate merges the staged fields into a single UPDATE
func (r *ClientRepository) ApplyLifecycleUpdate(ctx context.Context, id uuid.UUID, upd models.ClientLifecycleUpdate) error {
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}

	tag, err := r.DB.Exec(ctx,
		`UPDATE clients SET
             status = COALESCE($2::text, status),
             status_changed_at = COALESCE($3::timestamptz, status_changed_at),
             owner_id = CASE WHEN $4::boolean THEN NULL ELSE owner_id END,
             updated_at = NOW()
         WHERE id = $1`,
		id, status, upd.StatusChangedAt, upd.ClearOwner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns client counts per status, optionally for one owner
func (r *ClientRepository) CountByStatus(ctx context.Context, ownerID *uuid.UUID) ([]models.StatusCount, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM clients
         WHERE ($1::uuid IS NULL OR owner_id = $1)
         GROUP BY status ORDER BY status`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// OwnerSummaries aggregates each owner's pipeline and call volume since the given time
func (r *ClientRepository) OwnerSummaries(ctx context.Context, since time.Time) ([]models.OwnerSummary, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT c.owner_id, COALESCE(u.full_name, 'Nieprzypisani'),
                COUNT(*),
                COUNT(*) FILTER (WHERE c.status = 'canvas'),
                COUNT(*) FILTER (WHERE c.status IN ('sale', '$$')),
                COALESCE((SELECT COUNT(*) FROM calls k WHERE k.user_id = c.owner_id AND k.created_at >= $1), 0)
         FROM clients c
         LEFT JOIN users u ON u.id = c.owner_id
         GROUP BY c.owner_id, u.full_name
         ORDER BY COUNT(*) DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OwnerSummary
	for rows.Next() {
		var s models.OwnerSummary
		if err := rows.Scan(&s.OwnerID, &s.OwnerName, &s.Clients, &s.Canvas, &s.Sales, &s.Calls); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
