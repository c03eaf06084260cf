package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/hci-inventory/internal/auth"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth *auth.Service
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Username == "" || input.Password == "" {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, user, err := h.Auth.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
