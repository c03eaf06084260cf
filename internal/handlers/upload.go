package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/hci-inventory/internal/ingest"
)

// multipartMemory is how much of an upload is buffered in memory before spilling to disk.
const multipartMemory = 8 << 20

// UploadHandler ingests inventory spreadsheets.
type UploadHandler struct {
	Engine *ingest.Engine
}

// Upload expects a multipart form with the spreadsheet in field "file".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := session(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, err)
			return
		}
		JSONError(w, "expected multipart form with a file field", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		JSONValidationError(w, "validation failed", map[string]string{"file": "required"}, http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.Engine.IngestFile(r.Context(), header.Filename, file, actor.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added":   res.Added,
		"updated": res.Updated,
		"message": res.Message(),
	})
}
