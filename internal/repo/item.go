package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/hci-inventory/internal/models"
)

const itemColumns = `id, type, manufacturer, model, description, sum_description, qty,
		COALESCE(head_configuration, ''), dept, status, area, location, site`

// ========================
// REPOSITORY STRUCT
// ========================

type ItemRepo struct {
	DB DBTX
}

func NewItemRepo(db DBTX) *ItemRepo {
	return &ItemRepo{DB: db}
}

func scanItem(row interface{ Scan(...any) error }) (*models.InventoryItem, error) {
	var i models.InventoryItem
	err := row.Scan(
		&i.ID, &i.Type, &i.Manufacturer, &i.Model, &i.Description, &i.SumDescription, &i.Qty,
		&i.HeadConfiguration, &i.Dept, &i.Status, &i.Area, &i.Location, &i.Site,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ========================
// GET ITEM BY ID
// ========================

func (r *ItemRepo) GetByID(ctx context.Context, id int) (*models.InventoryItem, error) {
	item, err := scanItem(r.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return item, err
}

// GetForUpdate loads the item and holds its row lock until the surrounding
// transaction ends. Only meaningful when r.DB is a *sql.Tx.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id int) (*models.InventoryItem, error) {
	item, err := scanItem(r.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return item, err
}

// ========================
// FIND BY MODEL
// ========================

// FindIDByModel returns the id of the item whose model equals model exactly.
func (r *ItemRepo) FindIDByModel(ctx context.Context, model string) (int, bool, error) {
	var id int
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM inventory_items WHERE model = $1 ORDER BY id LIMIT 1`, model,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ========================
// INSERT ITEM
// ========================

func (r *ItemRepo) Insert(ctx context.Context, i models.InventoryItem) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO inventory_items
		 (type, manufacturer, model, description, sum_description, qty, head_configuration, dept, status, area, location, site)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		i.Type, i.Manufacturer, i.Model, i.Description, i.SumDescription, i.Qty,
		nullString(i.HeadConfiguration), i.Dept, i.Status, i.Area, i.Location, i.Site,
	).Scan(&id)
	return id, err
}

// ========================
// REPLACE ITEM BY ID
// ========================

// Replace overwrites every mapped attribute of the item, quantity included.
func (r *ItemRepo) Replace(ctx context.Context, id int, i models.InventoryItem) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE inventory_items
		 SET type = $1, manufacturer = $2, model = $3, description = $4, sum_description = $5, qty = $6,
		     head_configuration = $7, dept = $8, status = $9, area = $10, location = $11, site = $12
		 WHERE id = $13`,
		i.Type, i.Manufacturer, i.Model, i.Description, i.SumDescription, i.Qty,
		nullString(i.HeadConfiguration), i.Dept, i.Status, i.Area, i.Location, i.Site, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ========================
// DEBIT STOCK
// ========================

// Debit subtracts qty from the item's stock only when enough stock remains.
// ok is false when the item holds fewer than qty units; nothing is changed then.
func (r *ItemRepo) Debit(ctx context.Context, id, qty int) (remaining int, ok bool, err error) {
	err = r.DB.QueryRowContext(ctx,
		`UPDATE inventory_items SET qty = qty - $1 WHERE id = $2 AND qty >= $1 RETURNING qty`,
		qty, id,
	).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return remaining, true, nil
}

// ========================
// LIST AVAILABLE ITEMS
// ========================

// ListAvailable returns in-stock items ordered by id. A non-empty query filters
// model, manufacturer and description case-insensitively.
func (r *ItemRepo) ListAvailable(ctx context.Context, query string, limit, offset int) ([]models.InventoryItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM inventory_items
		 WHERE qty > 0 AND ($1 = '' OR model ILIKE '%' || $1 || '%' OR manufacturer ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		query, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}
