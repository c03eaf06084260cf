package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/hci-inventory/internal/middleware"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/go-chi/chi/v5"
)

// pagination reads limit and offset from the query string. limit is clamped to maxLimit.
func pagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = min(val, maxLimit)
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}
	return limit, offset
}

func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// session returns the caller's session, answering 401 when the route was mounted without Authenticate.
func session(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
	}
	return s, ok
}
