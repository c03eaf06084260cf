package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/ingest"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
	"github.com/crucial707/hci-inventory/internal/workflow"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	writeJSON(w, status, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Anything unknown is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, models.ErrForbidden):
		JSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, auth.ErrInvalidCredentials):
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, workflow.ErrInvalidInput), errors.Is(err, auth.ErrInvalidInput), errors.Is(err, ingest.ErrInvalidSheet):
		JSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &maxErr):
		JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, repo.ErrItemNotFound), errors.Is(err, repo.ErrRequestNotFound), errors.Is(err, repo.ErrUserNotFound):
		JSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, workflow.ErrInsufficientStock), errors.Is(err, workflow.ErrNotPending), errors.Is(err, auth.ErrUsernameTaken):
		JSONError(w, err.Error(), http.StatusConflict)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
