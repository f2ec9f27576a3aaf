package handler

import (
	"net/http"

	"github.com/pressgate-dev/pressgate/internal/domain"
)

type createAccountRequest struct {
	Name     string `validate:"required" json:"name"`
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required" json:"password"`
	Admin    bool   `json:"admin"`
}

// CreateAccount lets an admin provision accounts, including other admins.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	creds := domain.Credentials{Email: req.Email, Password: req.Password}
	id, err := h.auth.CreateAccount(realmParam(r), req.Name, creds, req.Admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Account created", map[string]interface{}{"id": id})
}

// DeleteAccount soft deletes an account. Its content stays; its sessions die.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.SoftDelete(realmParam(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Account deleted", nil)
}

// RestoreAccount reverses a soft delete, provided the email is still free.
func (h *Handler) RestoreAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Restore(realmParam(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Account restored", nil)
}
