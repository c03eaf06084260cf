package repo

import (
	"context"

	"github.com/crucial707/hci-inventory/internal/models"
)

// ApprovalRepo appends and reads approval decisions. Rows are never updated.
type ApprovalRepo struct {
	DB DBTX
}

func NewApprovalRepo(db DBTX) *ApprovalRepo {
	return &ApprovalRepo{DB: db}
}

// Append records a decision.
func (r *ApprovalRepo) Append(ctx context.Context, requestID, approverID int, decision, comments string) (*models.ApprovalLog, error) {
	l := &models.ApprovalLog{}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO approval_logs (request_id, approver_id, decision, comments)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, request_id, approver_id, decision, comments, timestamp`,
		requestID, approverID, decision, comments,
	).Scan(&l.ID, &l.RequestID, &l.ApproverID, &l.Decision, &l.Comments, &l.Timestamp)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListByApprover returns the approver's most recent decisions, newest first.
func (r *ApprovalRepo) ListByApprover(ctx context.Context, approverID, limit int) ([]models.ApprovalLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, request_id, approver_id, decision, comments, timestamp
		 FROM approval_logs
		 WHERE approver_id = $1
		 ORDER BY timestamp DESC
		 LIMIT $2`,
		approverID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.ApprovalLog
	for rows.Next() {
		var l models.ApprovalLog
		if err := rows.Scan(&l.ID, &l.RequestID, &l.ApproverID, &l.Decision, &l.Comments, &l.Timestamp); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
