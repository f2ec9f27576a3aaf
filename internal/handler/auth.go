package handler

import (
	"net/http"

	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/middleware"
)

type registerRequest struct {
	Name     string `validate:"required" json:"name"`
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required" json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.auth.Register(realmParam(r), req.Name, domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "Account created, you can log in now", map[string]interface{}{"id": id})
}

type loginRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.auth.Login(realmParam(r), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Logged in", map[string]interface{}{
		"token":     token,
		"expiresIn": int(h.cfg.JwtTTL().Seconds()),
	})
}

type changePasswordRequest struct {
	OldPassword string `validate:"required" json:"oldPassword"`
	NewPassword string `validate:"required" json:"newPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		writeError(w, internal_errors.Unauthorized("Please sign in"))
		return
	}

	var req changePasswordRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ChangePassword(realmParam(r), caller.Account.Id, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Password changed, existing sessions are signed out", nil)
}
