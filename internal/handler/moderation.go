package handler

import (
	"net/http"

	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/middleware"
)

// ListPending is the admin review queue, oldest submissions first.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	q, err := contentQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.content.ListPending(realmParam(r), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK", toPageView(page, true))
}

// ApproveContent publishes a pending item.
func (h *Handler) ApproveContent(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		writeError(w, internal_errors.Unauthorized("Please sign in"))
		return
	}

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := h.moderation.Approve(realmParam(r), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Approved", toView(content, true))
}

type rejectRequest struct {
	Note string `validate:"required" json:"note"`
}

// RejectContent declines a pending item with a mandatory review note.
func (h *Handler) RejectContent(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		writeError(w, internal_errors.Unauthorized("Please sign in"))
		return
	}

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req rejectRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	content, err := h.moderation.Reject(realmParam(r), caller, id, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Rejected", toView(content, true))
}
