package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/hci-inventory/internal/models"
)

var itemRowColumns = []string{"id", "type", "manufacturer", "model", "description", "sum_description", "qty",
	"head_configuration", "dept", "status", "area", "location", "site"}

func TestItemRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM inventory_items WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(itemRowColumns).
			AddRow(7, "Laptop", "Dell", "LAP-100", "Latitude", "Laptop 14in", 5, "", "IT", "Active", "A1", "Shelf 3", "HQ"))

	item, err := NewItemRepo(db).GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.ID != 7 || item.Model != "LAP-100" || item.Qty != 5 || item.Site != "HQ" {
		t.Errorf("unexpected item: %+v", item)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM inventory_items WHERE id = \$1`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows(itemRowColumns))

	_, err = NewItemRepo(db).GetByID(context.Background(), 999)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err.Error() != "item not found" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestItemRepo_FindIDByModel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM inventory_items WHERE model = \$1`).
		WithArgs("LAP-100").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`SELECT id FROM inventory_items WHERE model = \$1`).
		WithArgs("MISSING").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewItemRepo(db)
	id, found, err := repo.FindIDByModel(context.Background(), "LAP-100")
	if err != nil || !found || id != 3 {
		t.Errorf("FindIDByModel(LAP-100) = %d, %v, %v", id, found, err)
	}
	_, found, err = repo.FindIDByModel(context.Background(), "MISSING")
	if err != nil || found {
		t.Errorf("FindIDByModel(MISSING) found=%v err=%v", found, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO inventory_items`).
		WithArgs("Laptop", "Dell", "LAP-100", "Latitude", "", 5, nil, "IT", "", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := NewItemRepo(db).Insert(context.Background(), models.InventoryItem{
		Type: "Laptop", Manufacturer: "Dell", Model: "LAP-100", Description: "Latitude", Qty: 5, Dept: "IT",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != 11 {
		t.Errorf("id: got %d, want 11", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_Replace_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE inventory_items SET type = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewItemRepo(db).Replace(context.Background(), 42, models.InventoryItem{Model: "X"})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestItemRepo_Debit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE inventory_items SET qty = qty - \$1 WHERE id = \$2 AND qty >= \$1 RETURNING qty`).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"qty"}).AddRow(2))
	mock.ExpectQuery(`UPDATE inventory_items SET qty = qty - \$1 WHERE id = \$2 AND qty >= \$1 RETURNING qty`).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"qty"}))

	repo := NewItemRepo(db)
	remaining, ok, err := repo.Debit(context.Background(), 7, 3)
	if err != nil || !ok || remaining != 2 {
		t.Errorf("first Debit = %d, %v, %v", remaining, ok, err)
	}
	_, ok, err = repo.Debit(context.Background(), 7, 3)
	if err != nil || ok {
		t.Errorf("second Debit should be refused: ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_ListAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM inventory_items WHERE qty > 0 .* LIMIT \$2 OFFSET \$3`).
		WithArgs("dell", 10, 0).
		WillReturnRows(sqlmock.NewRows(itemRowColumns).
			AddRow(1, "Laptop", "Dell", "LAP-100", "", "", 2, "", "", "", "", "", "").
			AddRow(2, "Monitor", "Dell", "MON-27", "", "", 9, "", "", "", "", "", ""))

	items, err := NewItemRepo(db).ListAvailable(context.Background(), "dell", 10, 0)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(items) != 2 || items[0].Model != "LAP-100" || items[1].Qty != 9 {
		t.Errorf("unexpected items: %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
