package handler

import "net/http"

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "OK", nil)
}
