package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
)

// contentColumns selects from a contents table aliased "c" joined to its
// realm's accounts table aliased "a". The owner is a weak reference:
// deleting the account leaves the row untouched and the name falls back to
// the placeholder at read time.
const contentColumns = `c.id, c.title, c.slug, c.body, c.summary, c.location,
	c.starts_at, c.media_url, c.media_type, c.owner_id,
	COALESCE(CASE WHEN a.is_deleted THEN NULL ELSE a.name END, '` + domain.UnknownOwnerName + `'),
	c.status, c.reviewer_id, c.review_note, c.view_count, c.created_at, c.updated_at`

func contentFrom(realm domain.Realm) string {
	return fmt.Sprintf("%s c LEFT JOIN %s a ON a.id = c.owner_id",
		ContentsTableName(realm), AccountsTableName(realm))
}

func scanContent(scanner interface{ Scan(...interface{}) error }) (domain.Content, error) {
	var c domain.Content
	err := scanner.Scan(&c.Id, &c.Title, &c.Slug, &c.Body, &c.Summary, &c.Location,
		&c.StartsAt, &c.MediaURL, &c.MediaType, &c.OwnerId, &c.OwnerName,
		&c.Status, &c.ReviewerId, &c.ReviewNote, &c.ViewCount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Storage) CreateContent(realm domain.Realm, content domain.Content) (domain.ContentId, error) {
	var id domain.ContentId
	err := s.db.QueryRow(fmt.Sprintf(`
		INSERT INTO %s (title, slug, body, summary, location, starts_at,
			media_url, media_type, owner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`, ContentsTableName(realm)),
		content.Title, content.Slug, content.Body, content.Summary, content.Location,
		content.StartsAt, content.MediaURL, content.MediaType, content.OwnerId, content.Status,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return -1, internal_errors.ErrSlugTaken
		}
		return -1, fmt.Errorf("failed to insert content: %w", err)
	}
	return id, nil
}

func (s *Storage) ContentById(realm domain.Realm, id domain.ContentId) (domain.Content, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		SELECT %s FROM %s WHERE c.id = $1`, contentColumns, contentFrom(realm)), id)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Content{}, internal_errors.NotFound("Content not found")
		}
		return domain.Content{}, fmt.Errorf("failed to query content: %w", err)
	}
	return content, nil
}

// PublishedContentBySlug atomically bumps the view counter and returns the
// item. The single conditional UPDATE makes concurrent reads each count
// exactly once, with no read-modify-write race.
func (s *Storage) PublishedContentBySlug(realm domain.Realm, slug domain.Slug) (domain.Content, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		WITH bumped AS (
			UPDATE %s SET view_count = view_count + 1
			WHERE slug = $1 AND status = 'published'
			RETURNING *
		)
		SELECT %s FROM bumped c
		LEFT JOIN %s a ON a.id = c.owner_id`,
		ContentsTableName(realm), contentColumns, AccountsTableName(realm)), slug)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Content{}, internal_errors.NotFound("Content not found")
		}
		return domain.Content{}, fmt.Errorf("failed to query content by slug: %w", err)
	}
	return content, nil
}

// sortColumns is the allow-list of caller-selectable sort fields.
var sortColumns = map[string]string{
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
	"title":      "c.title",
	"views":      "c.view_count",
}

// searchColumns is the fixed set of text fields substring search runs over.
var searchColumns = []string{"c.title", "c.summary", "c.body", "c.location"}

// Contents lists a realm's content page according to q. Page and Limit must
// already be normalized (page >= 1, limit > 0) by the caller.
func (s *Storage) Contents(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error) {
	where, args := buildContentFilter(q)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, contentFrom(realm), where)
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return domain.ContentPage{}, fmt.Errorf("failed to count contents: %w", err)
	}

	orderBy, ok := sortColumns[q.SortBy]
	if !ok {
		orderBy = "c.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortDir, "asc") {
		dir = "ASC"
	}

	offset := (q.Page - 1) * q.Limit
	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY %s %s, c.id %s
		LIMIT %d OFFSET %d`,
		contentColumns, contentFrom(realm), where, orderBy, dir, dir, q.Limit, offset)

	rows, err := s.db.Query(listQuery, args...)
	if err != nil {
		return domain.ContentPage{}, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	items := []domain.Content{}
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return domain.ContentPage{}, fmt.Errorf("failed to scan content: %w", err)
		}
		items = append(items, content)
	}
	if err := rows.Err(); err != nil {
		return domain.ContentPage{}, fmt.Errorf("rows iteration error: %w", err)
	}

	return domain.ContentPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		TotalPages: domain.TotalPages(total, q.Limit),
	}, nil
}

func buildContentFilter(q domain.ContentQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if q.OwnerId != nil {
		args = append(args, *q.OwnerId)
		clauses = append(clauses, fmt.Sprintf("c.owner_id = $%d", len(args)))
	}
	if q.Status != nil {
		args = append(args, *q.Status)
		clauses = append(clauses, fmt.Sprintf("c.status = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		var ors []string
		for _, col := range searchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, n))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// ApproveContent moves a pending item to published in one conditional
// statement. Under two concurrent approvals exactly one update applies; the
// loser diagnoses the row and reports the terminal state as a Conflict.
func (s *Storage) ApproveContent(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId) (domain.Content, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		WITH moved AS (
			UPDATE %s
			SET status = 'published',
			    reviewer_id = $2,
			    review_note = '',
			    updated_at = now()
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		)
		SELECT %s FROM moved c
		LEFT JOIN %s a ON a.id = c.owner_id`,
		ContentsTableName(realm), contentColumns, AccountsTableName(realm)), id, reviewerId)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Content{}, s.diagnoseTransitionFailure(realm, id, domain.StatusPublished)
		}
		return domain.Content{}, fmt.Errorf("failed to approve content: %w", err)
	}
	return content, nil
}

// RejectContent moves a pending item to rejected, recording reviewer and
// note. Same conditional-update contract as ApproveContent.
func (s *Storage) RejectContent(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId, note string) (domain.Content, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		WITH moved AS (
			UPDATE %s
			SET status = 'rejected',
			    reviewer_id = $2,
			    review_note = $3,
			    updated_at = now()
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		)
		SELECT %s FROM moved c
		LEFT JOIN %s a ON a.id = c.owner_id`,
		ContentsTableName(realm), contentColumns, AccountsTableName(realm)), id, reviewerId, note)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Content{}, s.diagnoseTransitionFailure(realm, id, domain.StatusRejected)
		}
		return domain.Content{}, fmt.Errorf("failed to reject content: %w", err)
	}
	return content, nil
}

func (s *Storage) diagnoseTransitionFailure(realm domain.Realm, id domain.ContentId, target domain.ContentStatus) error {
	var status domain.ContentStatus
	err := s.db.QueryRow(fmt.Sprintf(`
		SELECT status FROM %s WHERE id = $1`, ContentsTableName(realm)), id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound("Content not found")
	}
	if err != nil {
		return fmt.Errorf("failed to inspect content: %w", err)
	}
	if status == target {
		return internal_errors.Conflict(fmt.Sprintf("Content is already %s", target))
	}
	return internal_errors.Conflict(fmt.Sprintf("Content is %s, only pending items can be reviewed", status))
}

// ResubmitContent lets the owner update their fields and move a pending or
// rejected item back to pending, clearing reviewer metadata. Ownership and
// status are enforced in the same statement.
func (s *Storage) ResubmitContent(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId, draft domain.ContentDraft) (domain.Content, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		WITH moved AS (
			UPDATE %s
			SET title = $3,
			    body = $4,
			    summary = $5,
			    location = $6,
			    starts_at = $7,
			    media_url = $8,
			    media_type = $9,
			    status = 'pending',
			    review_note = '',
			    reviewer_id = NULL,
			    updated_at = now()
			WHERE id = $1 AND owner_id = $2 AND status IN ('pending', 'rejected')
			RETURNING *
		)
		SELECT %s FROM moved c
		LEFT JOIN %s a ON a.id = c.owner_id`,
		ContentsTableName(realm), contentColumns, AccountsTableName(realm)),
		id, ownerId, draft.Title, draft.Body, draft.Summary, draft.Location,
		draft.StartsAt, draft.MediaURL, draft.MediaType)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Content{}, s.diagnoseOwnerWriteFailure(realm, id, ownerId)
		}
		return domain.Content{}, fmt.Errorf("failed to resubmit content: %w", err)
	}
	return content, nil
}

// DeleteContentByOwner removes the owner's own pending or rejected item.
func (s *Storage) DeleteContentByOwner(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId) error {
	result, err := s.db.Exec(fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2 AND status IN ('pending', 'rejected')`,
		ContentsTableName(realm)), id, ownerId)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return s.diagnoseOwnerWriteFailure(realm, id, ownerId)
	}
	return nil
}

func (s *Storage) diagnoseOwnerWriteFailure(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId) error {
	var actualOwner domain.AccountId
	var status domain.ContentStatus
	err := s.db.QueryRow(fmt.Sprintf(`
		SELECT owner_id, status FROM %s WHERE id = $1`,
		ContentsTableName(realm)), id).Scan(&actualOwner, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound("Content not found")
	}
	if err != nil {
		return fmt.Errorf("failed to inspect content: %w", err)
	}
	if actualOwner != ownerId {
		return internal_errors.Forbidden("Not the owner of this content")
	}
	return internal_errors.Forbidden(fmt.Sprintf("Content is %s, only pending or rejected items can be changed by the owner", status))
}

// DeleteContent removes an item unconditionally (admin path).
func (s *Storage) DeleteContent(realm domain.Realm, id domain.ContentId) error {
	result, err := s.db.Exec(fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1`, ContentsTableName(realm)), id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("Content not found")
	}
	return nil
}
