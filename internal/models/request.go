package models

import "time"

// Request statuses. PENDING is the only non-terminal status.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// AssetRequest is a user's request for a quantity of one inventory item.
type AssetRequest struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	ItemID       int       `json:"item_id"`
	QtyRequested int       `json:"qty_requested"`
	Purpose      string    `json:"purpose"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// RequestSummary is a request joined with its item and requester for listings.
type RequestSummary struct {
	AssetRequest
	Requester    string `json:"requester"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Description  string `json:"description"`
	CurrentStock int    `json:"current_stock"`
	// CanApprove is false when current stock no longer covers the request.
	CanApprove bool `json:"can_approve"`
}

// ApprovalLog records one decision on a request.
type ApprovalLog struct {
	ID         int       `json:"id"`
	RequestID  int       `json:"request_id"`
	ApproverID int       `json:"approver_id"`
	Decision   string    `json:"decision"`
	Comments   string    `json:"comments,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CanApprove reports whether an approval of r would succeed against stock units on hand.
func (r AssetRequest) CanApprove(stock int) bool {
	return r.Status == StatusPending && stock >= r.QtyRequested
}
