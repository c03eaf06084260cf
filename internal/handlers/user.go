package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/repo"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Auth *auth.Service
	Repo *repo.UserRepo
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := session(w, r)
	if !ok {
		return
	}
	var input auth.NewUser
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.Auth.CreateUser(r.Context(), actor, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)
	users, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	total, err := h.Repo.Count(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
