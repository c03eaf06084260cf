package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/hci-inventory/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB DBTX
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &email, &user.Role); err != nil {
		return nil, err
	}
	user.Email = email.String
	return user, nil
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, email, role string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, email, role
	`
	return scanUser(r.DB.QueryRowContext(ctx, query, username, passwordHash, nullString(email), role))
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, role
		FROM users
		WHERE id = $1
	`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, role
		FROM users
		WHERE username = $1
	`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, password_hash, email, role FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}
