package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/logger"
	"github.com/pressgate-dev/pressgate/internal/service"
)

type Handler struct {
	auth       service.AuthService
	moderation service.ModerationService
	content    service.ContentService
	stats      service.StatsService
	cfg        *config.Config
}

func New(auth service.AuthService, moderation service.ModerationService,
	content service.ContentService, stats service.StatsService, cfg *config.Config) *Handler {
	return &Handler{auth, moderation, content, stats, cfg}
}

// response is the stable envelope every endpoint returns.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response{Success: true, Message: message, Data: data}); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to status codes. Internal errors are
// logged with detail but reported generically.
func writeError(w http.ResponseWriter, err error) {
	status := internal_errors.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.Error("request failed", "error", err)
		message = "Internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: false, Message: message})
}

// decodeValidate parses a JSON body and applies struct validation tags.
func decodeValidate(r io.Reader, body interface{}) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return internal_errors.Validation("Body is invalid json")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		return internal_errors.Validation("Required fields missing or invalid")
	}
	return nil
}

func realmParam(r *http.Request) domain.Realm {
	return chi.URLParam(r, "realm")
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, internal_errors.Validation("invalid " + name + ": must be an integer")
	}
	return id, nil
}

// contentQuery reads the shared listing parameters from the URL query.
func contentQuery(r *http.Request) (domain.ContentQuery, error) {
	q := domain.ContentQuery{
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, internal_errors.Validation("invalid page: must be an integer")
		}
		q.Page = page
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, internal_errors.Validation("invalid limit: must be an integer")
		}
		q.Limit = limit
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.ContentStatus(raw)
		switch status {
		case domain.StatusPending, domain.StatusPublished, domain.StatusRejected, domain.StatusDraft:
			q.Status = &status
		default:
			return q, internal_errors.Validation("invalid status filter")
		}
	}
	return q, nil
}
