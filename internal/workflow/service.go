// Package workflow holds the request submission and approval transactions.
package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/crucial707/hci-inventory/internal/metrics"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/notify"
	"github.com/crucial707/hci-inventory/internal/repo"
	"github.com/go-playground/validator/v10"
)

// HistoryLimit caps the approval history listing.
const HistoryLimit = 50

type Service struct {
	DB       *sql.DB
	Notifier notify.Notifier
	validate *validator.Validate
}

func NewService(db *sql.DB, n notify.Notifier) *Service {
	if n == nil {
		n = notify.MockNotifier{}
	}
	return &Service{DB: db, Notifier: n, validate: validator.New()}
}

// SubmitInput is what a requester fills in.
type SubmitInput struct {
	ItemID        int    `json:"item_id" validate:"required,gt=0"`
	Qty           int    `json:"qty" validate:"required,gte=1"`
	Purpose       string `json:"purpose" validate:"max=2000"`
	ApproverEmail string `json:"approver_email" validate:"required,email"`
}

// Submit creates a PENDING request after checking the stock on hand. The
// approver is notified afterwards; a failed notification does not undo the
// request.
func (s *Service) Submit(ctx context.Context, actor models.Session, in SubmitInput) (*models.AssetRequest, error) {
	if !actor.Can(models.CapRequest) {
		return nil, ErrForbidden
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item, err := repo.NewItemRepo(s.DB).GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if in.Qty > item.Qty {
		return nil, &StockError{Requested: in.Qty, Available: item.Qty}
	}

	req, err := repo.NewRequestRepo(s.DB).Create(ctx, actor.UserID, item.ID, in.Qty, in.Purpose)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	slog.InfoContext(ctx, "request submitted", "request_id", req.ID, "user", actor.Username, "item", item.Model, "qty", in.Qty)

	body, err := notify.RenderNewRequest(notify.NewRequestEmail{
		Requester: actor.Username,
		Item:      item.Label(),
		Qty:       in.Qty,
		Purpose:   in.Purpose,
		Submitted: req.CreatedAt,
	})
	if err != nil {
		slog.ErrorContext(ctx, "render approver email", "request_id", req.ID, "error", err)
		return req, nil
	}
	s.Notifier.Notify(ctx, in.ApproverEmail, notify.SubjectNewRequest, body, true)
	return req, nil
}

// Decision is the outcome of a successful Decide.
type Decision struct {
	Request *models.AssetRequest `json:"request"`
	Log     *models.ApprovalLog  `json:"log"`
	// Remaining is the item's stock after the decision.
	Remaining int `json:"remaining"`
}

// Decide approves or rejects a PENDING request. Approval debits the item's
// stock in the same transaction and fails with a *StockError, leaving the
// request PENDING, when the stock no longer covers it. The request row is
// locked before the item row.
func (s *Service) Decide(ctx context.Context, actor models.Session, requestID int, decision, comments string) (*Decision, error) {
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return nil, fmt.Errorf("%w: decision must be %s or %s", ErrInvalidInput, models.StatusApproved, models.StatusRejected)
	}
	if !actor.Can(models.CapDecide) {
		return nil, ErrForbidden
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	requests := repo.NewRequestRepo(tx)
	items := repo.NewItemRepo(tx)

	req, err := requests.GetForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		metrics.IncDecisions("refused")
		return nil, fmt.Errorf("%w: request %d is %s", ErrNotPending, req.ID, req.Status)
	}

	var item *models.InventoryItem
	remaining := 0
	if decision == models.StatusApproved {
		if item, err = items.GetForUpdate(ctx, req.ItemID); err != nil {
			return nil, err
		}
		var ok bool
		remaining, ok, err = items.Debit(ctx, item.ID, req.QtyRequested)
		if err != nil {
			return nil, fmt.Errorf("debit stock: %w", err)
		}
		if !ok {
			metrics.IncDecisions("refused")
			return nil, &StockError{Requested: req.QtyRequested, Available: item.Qty}
		}
	} else {
		if item, err = items.GetByID(ctx, req.ItemID); err != nil {
			return nil, err
		}
		remaining = item.Qty
	}

	changed, err := requests.Decide(ctx, req.ID, decision)
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if !changed {
		return nil, fmt.Errorf("%w: request %d", ErrNotPending, req.ID)
	}
	req.Status = decision

	entry, err := repo.NewApprovalRepo(tx).Append(ctx, req.ID, actor.UserID, decision, comments)
	if err != nil {
		return nil, fmt.Errorf("append approval log: %w", err)
	}

	requester, err := repo.NewUserRepo(tx).GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	metrics.IncDecisions(decision)
	slog.InfoContext(ctx, "request decided",
		"request_id", req.ID, "decision", decision, "approver", actor.Username, "item", item.Model, "remaining", remaining)

	if requester.Email == "" {
		slog.WarnContext(ctx, "requester has no email, skipping notification", "request_id", req.ID, "user", requester.Username)
	} else {
		subject := notify.SubjectRejected
		if decision == models.StatusApproved {
			subject = notify.SubjectApproved
		}
		s.Notifier.Notify(ctx, requester.Email, subject, notify.DecisionBody(item.Model, decision == models.StatusApproved), false)
	}

	return &Decision{Request: req, Log: entry, Remaining: remaining}, nil
}

// Approve is Decide with APPROVED.
func (s *Service) Approve(ctx context.Context, actor models.Session, requestID int, comments string) (*Decision, error) {
	return s.Decide(ctx, actor, requestID, models.StatusApproved, comments)
}

// Reject is Decide with REJECTED.
func (s *Service) Reject(ctx context.Context, actor models.Session, requestID int, comments string) (*Decision, error) {
	return s.Decide(ctx, actor, requestID, models.StatusRejected, comments)
}

// ListMine returns the actor's own requests, newest first.
func (s *Service) ListMine(ctx context.Context, actor models.Session) ([]models.RequestSummary, error) {
	return repo.NewRequestRepo(s.DB).ListByUser(ctx, actor.UserID)
}

// ListPending returns every PENDING request with its current stock and
// whether it can still be approved.
func (s *Service) ListPending(ctx context.Context, actor models.Session) ([]models.RequestSummary, error) {
	if !actor.Can(models.CapDecide) {
		return nil, ErrForbidden
	}
	return repo.NewRequestRepo(s.DB).ListPending(ctx)
}

// History returns the actor's latest decisions.
func (s *Service) History(ctx context.Context, actor models.Session) ([]models.ApprovalLog, error) {
	if !actor.Can(models.CapDecide) {
		return nil, ErrForbidden
	}
	return repo.NewApprovalRepo(s.DB).ListByApprover(ctx, actor.UserID, HistoryLimit)
}
