package handler

import (
	"net/http"

	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/middleware"
)

// MyStats aggregates the caller's own content figures.
func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		writeError(w, internal_errors.Unauthorized("Please sign in"))
		return
	}

	stats, err := h.stats.OwnerStats(realmParam(r), caller.Account.Id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK", stats)
}

// GlobalStats aggregates across the whole realm, admin only.
func (h *Handler) GlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GlobalStats(realmParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK", stats)
}
