package domain

import "time"

type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft" // reserved, no realm enters it today
	StatusPending   ContentStatus = "pending"
	StatusPublished ContentStatus = "published"
	StatusRejected  ContentStatus = "rejected"
)

// UnknownOwnerName is rendered when the owning account was deleted or is
// otherwise missing. Ownership is a weak reference: content always outlives
// its account.
const UnknownOwnerName = "Unknown user"

type Content struct {
	Id         ContentId
	Title      string
	Slug       Slug
	Body       string
	Summary    string
	Location   string
	StartsAt   *time.Time
	MediaURL   string
	MediaType  string
	OwnerId    AccountId
	OwnerName  string // resolved best-effort at read time, never stored
	Status     ContentStatus
	ReviewerId *AccountId
	ReviewNote string
	ViewCount  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContentDraft carries the author-editable fields of a submission.
type ContentDraft struct {
	Title     string
	Body      string
	Summary   string
	Location  string
	StartsAt  *time.Time
	MediaURL  string
	MediaType string
}

// ContentQuery selects and orders a content listing. Nil/zero values mean
// "no filter"; Page/Limit are normalized by the service layer.
type ContentQuery struct {
	OwnerId *AccountId
	Status  *ContentStatus
	Search  string
	SortBy  string
	SortDir string
	Page    int
	Limit   int
}

// ContentPage is the pagination envelope every listing returns.
type ContentPage struct {
	Items      []Content `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// TotalPages computes ceil(total/limit) for limit > 0.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
