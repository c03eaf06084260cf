package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/workflow"
)

// RequestHandler exposes submission, listings and decisions.
type RequestHandler struct {
	Workflow *workflow.Service
}

func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := session(w, r)
	if !ok {
		return
	}
	var input workflow.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	req, err := h.Workflow.Submit(r.Context(), actor, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := session(w, r)
	if !ok {
		return
	}
	list, err := h.Workflow.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

func (h *RequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := session(w, r)
	if !ok {
		return
	}
	list, err := h.Workflow.ListPending(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

func (h *RequestHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := session(w, r)
	if !ok {
		return
	}
	logs, err := h.Workflow.History(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.ApprovalLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.StatusApproved)
}

func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.StatusRejected)
}

// decide reads an optional {"comments": "..."} body.
func (h *RequestHandler) decide(w http.ResponseWriter, r *http.Request, decision string) {
	actor, ok := session(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r)
	if !ok {
		JSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}
	var input struct {
		Comments string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	d, err := h.Workflow.Decide(r.Context(), actor, id, decision, input.Comments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func emptyIfNil(list []models.RequestSummary) []models.RequestSummary {
	if list == nil {
		return []models.RequestSummary{}
	}
	return list
}
