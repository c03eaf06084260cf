package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/hci-inventory/internal/models"
)

var requestRowColumns = []string{"id", "user_id", "item_id", "qty_requested", "purpose", "status", "created_at"}

func TestRequestRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO asset_requests \(user_id, item_id, qty_requested, purpose, status\)`).
		WithArgs(3, 7, 2, "new hires", models.StatusPending).
		WillReturnRows(sqlmock.NewRows(requestRowColumns).AddRow(1, 3, 7, 2, "new hires", "PENDING", now))

	req, err := NewRequestRepo(db).Create(context.Background(), 3, 7, 2, "new hires")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.ID != 1 || req.Status != models.StatusPending || req.QtyRequested != 2 {
		t.Errorf("unexpected request: %+v", req)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRequestRepo_GetForUpdate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM asset_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(requestRowColumns))

	_, err = NewRequestRepo(db).GetForUpdate(context.Background(), 5)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestRepo_Decide(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE asset_requests SET status = \$1 WHERE id = \$2 AND status = \$3`).
		WithArgs(models.StatusApproved, 1, models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE asset_requests SET status = \$1 WHERE id = \$2 AND status = \$3`).
		WithArgs(models.StatusRejected, 1, models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRequestRepo(db)
	if ok, err := repo.Decide(context.Background(), 1, models.StatusApproved); err != nil || !ok {
		t.Errorf("first Decide = %v, %v", ok, err)
	}
	if ok, err := repo.Decide(context.Background(), 1, models.StatusRejected); err != nil || ok {
		t.Errorf("second Decide should report not pending: %v, %v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRequestRepo_ListPending_CanApprove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	cols := append(append([]string{}, requestRowColumns...), "username", "manufacturer", "model", "description", "qty")
	mock.ExpectQuery(`FROM asset_requests r JOIN users u ON u.id = r.user_id JOIN inventory_items i ON i.id = r.item_id WHERE r.status = \$1`).
		WithArgs(models.StatusPending).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 3, 7, 2, "p1", "PENDING", now, "user", "Dell", "LAP-100", "", 2).
			AddRow(2, 3, 7, 3, "p2", "PENDING", now, "user", "Dell", "LAP-100", "", 2))

	list, err := NewRequestRepo(db).ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(list))
	}
	if !list[0].CanApprove {
		t.Error("request for 2 against stock 2 should be approvable")
	}
	if list[1].CanApprove {
		t.Error("request for 3 against stock 2 should not be approvable")
	}
	if list[0].Requester != "user" || list[0].Model != "LAP-100" {
		t.Errorf("unexpected summary: %+v", list[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
