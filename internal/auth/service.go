// Package auth manages user accounts and login sessions.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type Service struct {
	DB       *sql.DB
	Tokens   *Tokens
	validate *validator.Validate
}

func NewService(db *sql.DB, tokens *Tokens) *Service {
	return &Service{DB: db, Tokens: tokens, validate: validator.New()}
}

// Authenticate returns the user when password matches.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := repo.NewUserRepo(s.DB).GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.Tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// NewUser is the input of CreateUser.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=requester approver admin"`
}

// CreateUser adds an account and records a USER_CREATE audit entry in the
// same transaction.
func (s *Service) CreateUser(ctx context.Context, actor models.Session, in NewUser) (*models.User, error) {
	if !actor.Can(models.CapManageUsers) {
		return nil, models.ErrForbidden
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	user, err := repo.NewUserRepo(tx).Create(ctx, in.Username, hash, in.Email, in.Role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	details := map[string]string{"username": user.Username, "role": user.Role}
	if err := repo.NewAuditRepo(tx).Log(ctx, models.AuditUserCreate, actor.Username, details); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user created", "username", user.Username, "role", user.Role, "by", actor.Username)
	return user, nil
}

// DefaultUser is an account created by SeedDefaultUsers.
type DefaultUser struct {
	Username string
	Password string
	Email    string
	Role     string
}

var DefaultUsers = []DefaultUser{
	{"admin", "admin123", "admin@example.com", models.RoleAdmin},
	{"manager", "manager123", "manager@example.com", models.RoleApprover},
	{"user", "user123", "user@example.com", models.RoleRequester},
}

// SeedDefaultUsers creates any missing DefaultUsers and returns how many it created.
func (s *Service) SeedDefaultUsers(ctx context.Context) (int, error) {
	users := repo.NewUserRepo(s.DB)
	created := 0
	for _, d := range DefaultUsers {
		_, err := users.GetByUsername(ctx, d.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrUserNotFound) {
			return created, err
		}
		hash, err := HashPassword(d.Password)
		if err != nil {
			return created, err
		}
		if _, err := users.Create(ctx, d.Username, hash, d.Email, d.Role); err != nil {
			return created, fmt.Errorf("seed %s: %w", d.Username, err)
		}
		slog.Info("seeded user", "username", d.Username, "role", d.Role)
		created++
	}
	return created, nil
}
