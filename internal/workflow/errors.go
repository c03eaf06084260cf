package workflow

import (
	"errors"
	"fmt"

	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotPending        = errors.New("request is no longer pending")
	ErrForbidden         = models.ErrForbidden
	ErrInvalidInput      = errors.New("invalid input")

	ErrItemNotFound    = repo.ErrItemNotFound
	ErrRequestNotFound = repo.ErrRequestNotFound
)

// StockError reports a request larger than the stock on hand. It matches
// ErrInsufficientStock under errors.Is.
type StockError struct {
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("requested quantity (%d) exceeds available stock (%d)", e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }
