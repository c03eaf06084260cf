package handlers

import (
	"net/http"
	"strings"

	"github.com/crucial707/hci-inventory/internal/repo"
)

// ItemHandler serves the inventory catalogue.
type ItemHandler struct {
	Repo *repo.ItemRepo
}

// ListItems returns items in stock. Query: q (search), limit (default 50), offset.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	items, err := h.Repo.ListAvailable(r.Context(), q, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		JSONError(w, "invalid item id", http.StatusBadRequest)
		return
	}
	item, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
