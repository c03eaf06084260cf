package handlers

import (
	"net/http"

	"github.com/crucial707/hci-inventory/internal/repo"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	Repo *repo.AuditRepo
}

// ListAudit returns recent audit entries, newest first. Query: limit (default 100, max 500), offset.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 100, 500)
	entries, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
