package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/middleware"
)

// contentView is the JSON shape of a content item. Reviewer metadata is
// included only on owner/admin surfaces, never on public listings.
type contentView struct {
	Id         domain.ContentId     `json:"id"`
	Title      string               `json:"title"`
	Slug       string               `json:"slug"`
	Body       string               `json:"body"`
	Summary    string               `json:"summary,omitempty"`
	Location   string               `json:"location,omitempty"`
	StartsAt   *time.Time           `json:"startsAt,omitempty"`
	MediaURL   string               `json:"mediaUrl,omitempty"`
	MediaType  string               `json:"mediaType,omitempty"`
	OwnerName  string               `json:"ownerName"`
	Status     domain.ContentStatus `json:"status,omitempty"`
	ReviewNote string               `json:"reviewNote,omitempty"`
	ViewCount  int64                `json:"viewCount"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

func toView(c domain.Content, includeReview bool) contentView {
	v := contentView{
		Id:        c.Id,
		Title:     c.Title,
		Slug:      c.Slug,
		Body:      c.Body,
		Summary:   c.Summary,
		Location:  c.Location,
		StartsAt:  c.StartsAt,
		MediaURL:  c.MediaURL,
		MediaType: c.MediaType,
		OwnerName: c.OwnerName,
		ViewCount: c.ViewCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if includeReview {
		v.Status = c.Status
		v.ReviewNote = c.ReviewNote
	}
	return v
}

type pageView struct {
	Items      []contentView `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

func toPageView(p domain.ContentPage, includeReview bool) pageView {
	items := make([]contentView, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, toView(c, includeReview))
	}
	return pageView{Items: items, Total: p.Total, Page: p.Page, TotalPages: p.TotalPages}
}

type contentRequest struct {
	Title     string     `validate:"required" json:"title"`
	Body      string     `validate:"required" json:"body"`
	Summary   string     `json:"summary"`
	Location  string     `json:"location"`
	StartsAt  *time.Time `json:"startsAt"`
	MediaURL  string     `json:"mediaUrl"`
	MediaType string     `json:"mediaType"`
}

func (req contentRequest) draft() domain.ContentDraft {
	return domain.ContentDraft{
		Title:     req.Title,
		Body:      req.Body,
		Summary:   req.Summary,
		Location:  req.Location,
		StartsAt:  req.StartsAt,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
	}
}

// ListPublished is the public catalogue of a realm.
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	q, err := contentQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.content.ListPublished(realmParam(r), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK", toPageView(page, false))
}

// GetContent serves one published item by slug, counting the view.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.content.GetPublished(realmParam(r), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK", toView(content, false))
}

// SubmitContent creates a submission for review (or publishes it outright
// when the author is an admin).
func (h *Handler) SubmitContent(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		writeError(w, internal_errors.Unauthorized("Please sign in"))
		return
	}

	var req contentRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	content, err := h.moderation.Submit(realmParam(r), caller, req.draft())
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Submitted for review"
	if content.Status == domain.StatusPublished {
		message = "Published"
	}
	writeJSON(w, http.StatusCreated, message, toView(content, true))
}

// ListMine returns the caller's own items in any status.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		writeError(w, internal_errors.Unauthorized("Please sign in"))
		return
	}

	q, err := contentQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.content.ListOwn(realmParam(r), caller.Account.Id, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK", toPageView(page, true))
}

// ResubmitContent updates an owned pending/rejected item and queues it again.
func (h *Handler) ResubmitContent(w http.ResponseWriter, r *http.Request) {
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

	var req contentRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	content, err := h.moderation.Resubmit(realmParam(r), caller, id, req.draft())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Resubmitted for review", toView(content, true))
}

// DeleteContent removes an item under the ownership/status rules.
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
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

	if err := h.moderation.Delete(realmParam(r), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Deleted", nil)
}
