package service

import (
	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	"github.com/pressgate-dev/pressgate/internal/errors"
)

type ContentService interface {
	ListPublished(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error)
	GetPublished(realm domain.Realm, slug domain.Slug) (domain.Content, error)
	ListOwn(realm domain.Realm, ownerId domain.AccountId, q domain.ContentQuery) (domain.ContentPage, error)
	ListPending(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error)
}

type ContentStorage interface {
	Contents(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error)
	PublishedContentBySlug(realm domain.Realm, slug domain.Slug) (domain.Content, error)
}

type Content struct {
	storage ContentStorage
	cfg     *config.Config
}

func NewContent(storage ContentStorage, cfg *config.Config) *Content {
	return &Content{storage: storage, cfg: cfg}
}

// normalize clamps pagination to the contract: page >= 1, 0 < limit <= max.
// A page past the end is legal and yields an empty item list.
func (c *Content) normalize(q *domain.ContentQuery) error {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return errors.Validation("page must be >= 1")
	}
	if q.Limit == 0 {
		q.Limit = c.cfg.Public.DefaultPageSize
	}
	if q.Limit < 1 {
		return errors.Validation("limit must be > 0")
	}
	if max := c.cfg.Public.MaxPageSize; max > 0 && q.Limit > max {
		q.Limit = max
	}
	return nil
}

func (c *Content) list(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error) {
	if _, ok := c.cfg.Realm(realm); !ok {
		return domain.ContentPage{}, errors.NotFound("Unknown realm")
	}
	if err := c.normalize(&q); err != nil {
		return domain.ContentPage{}, err
	}
	return c.storage.Contents(realm, q)
}

// ListPublished is the public read path.
func (c *Content) ListPublished(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error) {
	status := domain.StatusPublished
	q.Status = &status
	q.OwnerId = nil
	return c.list(realm, q)
}

// GetPublished fetches one published item by slug and counts the view.
func (c *Content) GetPublished(realm domain.Realm, slug domain.Slug) (domain.Content, error) {
	if _, ok := c.cfg.Realm(realm); !ok {
		return domain.Content{}, errors.NotFound("Unknown realm")
	}
	return c.storage.PublishedContentBySlug(realm, slug)
}

// ListOwn returns the caller's items in any status, optionally filtered.
func (c *Content) ListOwn(realm domain.Realm, ownerId domain.AccountId, q domain.ContentQuery) (domain.ContentPage, error) {
	q.OwnerId = &ownerId
	return c.list(realm, q)
}

// ListPending is the admin review queue, oldest submissions first by
// default so nothing starves.
func (c *Content) ListPending(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error) {
	status := domain.StatusPending
	q.Status = &status
	q.OwnerId = nil
	if q.SortBy == "" {
		q.SortBy = "created_at"
		q.SortDir = "asc"
	}
	return c.list(realm, q)
}
