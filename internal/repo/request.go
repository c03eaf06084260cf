package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/hci-inventory/internal/models"
)

const requestColumns = `id, user_id, item_id, qty_requested, purpose, status, created_at`

// RequestRepo persists asset requests.
type RequestRepo struct {
	DB DBTX
}

// NewRequestRepo returns a new RequestRepo.
func NewRequestRepo(db DBTX) *RequestRepo {
	return &RequestRepo{DB: db}
}

func scanRequest(row interface{ Scan(...any) error }) (*models.AssetRequest, error) {
	var r models.AssetRequest
	if err := row.Scan(&r.ID, &r.UserID, &r.ItemID, &r.QtyRequested, &r.Purpose, &r.Status, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a PENDING request and returns it with id and created_at set.
func (r *RequestRepo) Create(ctx context.Context, userID, itemID, qty int, purpose string) (*models.AssetRequest, error) {
	return scanRequest(r.DB.QueryRowContext(ctx,
		`INSERT INTO asset_requests (user_id, item_id, qty_requested, purpose, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+requestColumns,
		userID, itemID, qty, purpose, models.StatusPending,
	))
}

// GetForUpdate loads the request and locks its row for the surrounding transaction.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id int) (*models.AssetRequest, error) {
	req, err := scanRequest(r.DB.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM asset_requests WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	return req, err
}

// Decide moves a PENDING request to status. It reports false when the request
// was no longer pending, in which case nothing changed.
func (r *RequestRepo) Decide(ctx context.Context, id int, status string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE asset_requests SET status = $1 WHERE id = $2 AND status = $3`,
		status, id, models.StatusPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

const summarySelect = `
		SELECT r.id, r.user_id, r.item_id, r.qty_requested, r.purpose, r.status, r.created_at,
		       u.username, i.manufacturer, i.model, i.description, i.qty
		FROM asset_requests r
		JOIN users u ON u.id = r.user_id
		JOIN inventory_items i ON i.id = r.item_id`

func scanSummaries(rows *sql.Rows) ([]models.RequestSummary, error) {
	defer rows.Close()

	var list []models.RequestSummary
	for rows.Next() {
		var s models.RequestSummary
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.ItemID, &s.QtyRequested, &s.Purpose, &s.Status, &s.CreatedAt,
			&s.Requester, &s.Manufacturer, &s.Model, &s.Description, &s.CurrentStock,
		); err != nil {
			return nil, err
		}
		s.CanApprove = s.AssetRequest.CanApprove(s.CurrentStock)
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListByUser returns one user's requests, newest first.
func (r *RequestRepo) ListByUser(ctx context.Context, userID int) ([]models.RequestSummary, error) {
	rows, err := r.DB.QueryContext(ctx, summarySelect+`
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

// ListPending returns every PENDING request, oldest first.
func (r *RequestRepo) ListPending(ctx context.Context) ([]models.RequestSummary, error) {
	rows, err := r.DB.QueryContext(ctx, summarySelect+`
		WHERE r.status = $1
		ORDER BY r.created_at, r.id`, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}
