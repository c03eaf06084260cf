package repo

import (
	"context"
	"encoding/json"

	"github.com/crucial707/hci-inventory/internal/models"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	db DBTX
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db DBTX) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. details is stored as JSON; nil becomes {}.
func (r *AuditRepo) Log(ctx context.Context, action, actor string, details any) error {
	payload := []byte("{}")
	if details != nil {
		var err error
		if payload, err = json.Marshal(details); err != nil {
			return err
		}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (action, actor, details) VALUES ($1, $2, $3)`,
		action, actor, payload,
	)
	return err
}

// List returns recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, actor, details, timestamp FROM audit_logs ORDER BY timestamp DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.Actor, &details, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Details = json.RawMessage(details)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
