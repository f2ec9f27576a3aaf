package service

import (
	std_errors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	"github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/logger"
	"github.com/pressgate-dev/pressgate/internal/notify"
	"github.com/pressgate-dev/pressgate/internal/sanitize"
	"github.com/pressgate-dev/pressgate/internal/slug"
)

// Caller is the resolved identity attached to a request. Admin is the
// effective decision (stored flag OR allow-list), computed by the identity
// resolver per request.
type Caller struct {
	Account domain.Account
	Admin   bool
}

type ModerationService interface {
	Submit(realm domain.Realm, caller Caller, draft domain.ContentDraft) (domain.Content, error)
	Approve(realm domain.Realm, caller Caller, id domain.ContentId) (domain.Content, error)
	Reject(realm domain.Realm, caller Caller, id domain.ContentId, note string) (domain.Content, error)
	Resubmit(realm domain.Realm, caller Caller, id domain.ContentId, draft domain.ContentDraft) (domain.Content, error)
	Delete(realm domain.Realm, caller Caller, id domain.ContentId) error
}

type ModerationStorage interface {
	CreateContent(realm domain.Realm, content domain.Content) (domain.ContentId, error)
	ContentById(realm domain.Realm, id domain.ContentId) (domain.Content, error)
	ApproveContent(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId) (domain.Content, error)
	RejectContent(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId, note string) (domain.Content, error)
	ResubmitContent(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId, draft domain.ContentDraft) (domain.Content, error)
	DeleteContentByOwner(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId) error
	DeleteContent(realm domain.Realm, id domain.ContentId) error
	AdminAccounts(realm domain.Realm) ([]domain.Account, error)
	AccountById(realm domain.Realm, id domain.AccountId) (domain.Account, error)
}

// Dispatcher is the fire-and-forget notification boundary. Implementations
// must never block the caller and never surface delivery errors.
type Dispatcher interface {
	Dispatch(n notify.Notification)
}

type Moderation struct {
	storage  ModerationStorage
	notifier Dispatcher
	cfg      *config.Config
}

func NewModeration(storage ModerationStorage, notifier Dispatcher, cfg *config.Config) *Moderation {
	return &Moderation{storage: storage, notifier: notifier, cfg: cfg}
}

func (m *Moderation) validateDraft(draft *domain.ContentDraft) error {
	sanitize.Fields(&draft.Title, &draft.Summary, &draft.Location)
	draft.Body = strings.TrimSpace(draft.Body)

	if draft.Title == "" {
		return errors.Validation("Title is required")
	}
	if utf8.RuneCountInString(draft.Title) > 200 {
		return errors.Validation("Title is too long")
	}
	if draft.Body == "" {
		return errors.Validation("Body is required")
	}
	return nil
}

// Submit creates a new content item. Admin authors publish immediately and
// nobody is notified; everyone else enters the pending queue and all realm
// admins are told about it.
func (m *Moderation) Submit(realm domain.Realm, caller Caller, draft domain.ContentDraft) (domain.Content, error) {
	if _, ok := m.cfg.Realm(realm); !ok {
		return domain.Content{}, errors.NotFound("Unknown realm")
	}
	if err := m.validateDraft(&draft); err != nil {
		return domain.Content{}, err
	}

	status := domain.StatusPending
	if caller.Admin {
		status = domain.StatusPublished
	}

	content := domain.Content{
		Title:     draft.Title,
		Slug:      slug.Make(draft.Title),
		Body:      draft.Body,
		Summary:   draft.Summary,
		Location:  draft.Location,
		StartsAt:  draft.StartsAt,
		MediaURL:  draft.MediaURL,
		MediaType: draft.MediaType,
		OwnerId:   caller.Account.Id,
		Status:    status,
	}
	if content.Slug == "" {
		content.Slug = slug.WithSuffix("")
	}

	id, err := m.createWithUniqueSlug(realm, content)
	if err != nil {
		return domain.Content{}, err
	}

	created, err := m.storage.ContentById(realm, id)
	if err != nil {
		return domain.Content{}, err
	}

	if status == domain.StatusPending {
		m.notifier.Dispatch(notify.Notification{
			Event:      notify.EventSubmitted,
			Realm:      realm,
			Title:      created.Title,
			Slug:       created.Slug,
			Summary:    created.Summary,
			Recipients: m.adminRecipients(realm),
		})
	}

	return created, nil
}

// createWithUniqueSlug retries once with a random suffix when the derived
// slug is already taken.
func (m *Moderation) createWithUniqueSlug(realm domain.Realm, content domain.Content) (domain.ContentId, error) {
	id, err := m.storage.CreateContent(realm, content)
	if err == nil {
		return id, nil
	}
	if !std_errors.Is(err, errors.ErrSlugTaken) {
		return -1, err
	}
	content.Slug = slug.WithSuffix(content.Slug)
	id, err = m.storage.CreateContent(realm, content)
	if err != nil {
		if std_errors.Is(err, errors.ErrSlugTaken) {
			return -1, errors.Conflict("Could not derive a unique slug")
		}
		return -1, err
	}
	return id, nil
}

// Approve publishes a pending item. Only pending items move; re-approving
// is a Conflict so a double-click cannot trigger a second notification.
func (m *Moderation) Approve(realm domain.Realm, caller Caller, id domain.ContentId) (domain.Content, error) {
	if !caller.Admin {
		return domain.Content{}, errors.Forbidden("Administrator privileges required")
	}

	content, err := m.storage.ApproveContent(realm, id, caller.Account.Id)
	if err != nil {
		return domain.Content{}, err
	}

	m.notifyOwner(realm, notify.EventApproved, content, "")
	return content, nil
}

// Reject moves a pending item to rejected. The reviewer note is mandatory
// and must meet the realm's minimum length.
func (m *Moderation) Reject(realm domain.Realm, caller Caller, id domain.ContentId, note string) (domain.Content, error) {
	if !caller.Admin {
		return domain.Content{}, errors.Forbidden("Administrator privileges required")
	}

	realmCfg, ok := m.cfg.Realm(realm)
	if !ok {
		return domain.Content{}, errors.NotFound("Unknown realm")
	}

	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) < realmCfg.MinRejectNote {
		return domain.Content{}, errors.Validation(
			fmt.Sprintf("Review note must be at least %d characters", realmCfg.MinRejectNote))
	}

	content, err := m.storage.RejectContent(realm, id, caller.Account.Id, note)
	if err != nil {
		return domain.Content{}, err
	}

	m.notifyOwner(realm, notify.EventRejected, content, note)
	return content, nil
}

// Resubmit lets the owner edit a pending or rejected item and put it back
// in the queue, clearing reviewer metadata.
func (m *Moderation) Resubmit(realm domain.Realm, caller Caller, id domain.ContentId, draft domain.ContentDraft) (domain.Content, error) {
	if err := m.validateDraft(&draft); err != nil {
		return domain.Content{}, err
	}
	return m.storage.ResubmitContent(realm, id, caller.Account.Id, draft)
}

// Delete removes an item: admins unconditionally, owners only while the
// item is pending or rejected.
func (m *Moderation) Delete(realm domain.Realm, caller Caller, id domain.ContentId) error {
	if caller.Admin {
		return m.storage.DeleteContent(realm, id)
	}
	return m.storage.DeleteContentByOwner(realm, id, caller.Account.Id)
}

// adminRecipients is the union of stored-flag admin accounts and the
// configured allow-list addresses.
func (m *Moderation) adminRecipients(realm domain.Realm) []domain.Email {
	seen := map[string]bool{}
	var recipients []domain.Email

	admins, err := m.storage.AdminAccounts(realm)
	if err != nil {
		logger.Log.Error("failed to resolve admin recipients", "realm", realm, "error", err)
	} else {
		for _, admin := range admins {
			if !seen[strings.ToLower(admin.Email)] {
				seen[strings.ToLower(admin.Email)] = true
				recipients = append(recipients, admin.Email)
			}
		}
	}

	for _, email := range m.cfg.Private.AdminEmails {
		email = strings.TrimSpace(email)
		if email != "" && !seen[strings.ToLower(email)] {
			seen[strings.ToLower(email)] = true
			recipients = append(recipients, email)
		}
	}
	return recipients
}

// notifyOwner dispatches a review outcome to the content owner, skipping
// deleted or missing accounts entirely.
func (m *Moderation) notifyOwner(realm domain.Realm, event notify.Event, content domain.Content, note string) {
	owner, err := m.storage.AccountById(realm, content.OwnerId)
	if err != nil {
		logger.Log.Warn("owner lookup failed for notification",
			"realm", realm, "owner_id", content.OwnerId, "error", err)
		return
	}
	if owner.Deleted {
		return
	}

	m.notifier.Dispatch(notify.Notification{
		Event:      event,
		Realm:      realm,
		Title:      content.Title,
		Slug:       content.Slug,
		Summary:    content.Summary,
		ReviewNote: note,
		Recipients: []domain.Email{owner.Email},
	})
}
