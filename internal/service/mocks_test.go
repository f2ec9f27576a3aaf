package service

import (
	"net/http"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/notify"
)

// --- Mocks ---

type MockAuthStorage struct {
	SaveAccountFunc        func(realm domain.Realm, account domain.Account) (domain.AccountId, error)
	LiveAccountByEmailFunc func(realm domain.Realm, email domain.Email) (domain.Account, error)
	AccountByIdFunc        func(realm domain.Realm, id domain.AccountId) (domain.Account, error)
	UpdatePasswordFunc     func(realm domain.Realm, id domain.AccountId, passHash string) error
	SoftDeleteAccountFunc  func(realm domain.Realm, id domain.AccountId) error
	RestoreAccountFunc     func(realm domain.Realm, id domain.AccountId) error
	TouchLastLoginFunc     func(realm domain.Realm, id domain.AccountId) error
}

func (m *MockAuthStorage) SaveAccount(realm domain.Realm, account domain.Account) (domain.AccountId, error) {
	if m.SaveAccountFunc != nil {
		return m.SaveAccountFunc(realm, account)
	}
	return 1, nil
}

func (m *MockAuthStorage) LiveAccountByEmail(realm domain.Realm, email domain.Email) (domain.Account, error) {
	if m.LiveAccountByEmailFunc != nil {
		return m.LiveAccountByEmailFunc(realm, email)
	}
	return domain.Account{}, &internal_errors.ErrorWithStatusCode{
		Message:    "Account not found",
		StatusCode: http.StatusNotFound,
	}
}

func (m *MockAuthStorage) AccountById(realm domain.Realm, id domain.AccountId) (domain.Account, error) {
	if m.AccountByIdFunc != nil {
		return m.AccountByIdFunc(realm, id)
	}
	return domain.Account{}, &internal_errors.ErrorWithStatusCode{
		Message:    "Account not found",
		StatusCode: http.StatusNotFound,
	}
}

func (m *MockAuthStorage) UpdatePassword(realm domain.Realm, id domain.AccountId, passHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(realm, id, passHash)
	}
	return nil
}

func (m *MockAuthStorage) SoftDeleteAccount(realm domain.Realm, id domain.AccountId) error {
	if m.SoftDeleteAccountFunc != nil {
		return m.SoftDeleteAccountFunc(realm, id)
	}
	return nil
}

func (m *MockAuthStorage) RestoreAccount(realm domain.Realm, id domain.AccountId) error {
	if m.RestoreAccountFunc != nil {
		return m.RestoreAccountFunc(realm, id)
	}
	return nil
}

func (m *MockAuthStorage) TouchLastLogin(realm domain.Realm, id domain.AccountId) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(realm, id)
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc func(account domain.Account, admin bool) (string, error)
}

func (m *MockJwt) NewToken(account domain.Account, admin bool) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(account, admin)
	}
	return "token", nil
}

type MockModerationStorage struct {
	CreateContentFunc        func(realm domain.Realm, content domain.Content) (domain.ContentId, error)
	ContentByIdFunc          func(realm domain.Realm, id domain.ContentId) (domain.Content, error)
	ApproveContentFunc       func(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId) (domain.Content, error)
	RejectContentFunc        func(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId, note string) (domain.Content, error)
	ResubmitContentFunc      func(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId, draft domain.ContentDraft) (domain.Content, error)
	DeleteContentByOwnerFunc func(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId) error
	DeleteContentFunc        func(realm domain.Realm, id domain.ContentId) error
	AdminAccountsFunc        func(realm domain.Realm) ([]domain.Account, error)
	AccountByIdFunc          func(realm domain.Realm, id domain.AccountId) (domain.Account, error)
}

func (m *MockModerationStorage) CreateContent(realm domain.Realm, content domain.Content) (domain.ContentId, error) {
	if m.CreateContentFunc != nil {
		return m.CreateContentFunc(realm, content)
	}
	return 1, nil
}

func (m *MockModerationStorage) ContentById(realm domain.Realm, id domain.ContentId) (domain.Content, error) {
	if m.ContentByIdFunc != nil {
		return m.ContentByIdFunc(realm, id)
	}
	return domain.Content{Id: id}, nil
}

func (m *MockModerationStorage) ApproveContent(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId) (domain.Content, error) {
	if m.ApproveContentFunc != nil {
		return m.ApproveContentFunc(realm, id, reviewerId)
	}
	return domain.Content{Id: id, Status: domain.StatusPublished}, nil
}

func (m *MockModerationStorage) RejectContent(realm domain.Realm, id domain.ContentId, reviewerId domain.AccountId, note string) (domain.Content, error) {
	if m.RejectContentFunc != nil {
		return m.RejectContentFunc(realm, id, reviewerId, note)
	}
	return domain.Content{Id: id, Status: domain.StatusRejected, ReviewNote: note}, nil
}

func (m *MockModerationStorage) ResubmitContent(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId, draft domain.ContentDraft) (domain.Content, error) {
	if m.ResubmitContentFunc != nil {
		return m.ResubmitContentFunc(realm, id, ownerId, draft)
	}
	return domain.Content{Id: id, Status: domain.StatusPending}, nil
}

func (m *MockModerationStorage) DeleteContentByOwner(realm domain.Realm, id domain.ContentId, ownerId domain.AccountId) error {
	if m.DeleteContentByOwnerFunc != nil {
		return m.DeleteContentByOwnerFunc(realm, id, ownerId)
	}
	return nil
}

func (m *MockModerationStorage) DeleteContent(realm domain.Realm, id domain.ContentId) error {
	if m.DeleteContentFunc != nil {
		return m.DeleteContentFunc(realm, id)
	}
	return nil
}

func (m *MockModerationStorage) AdminAccounts(realm domain.Realm) ([]domain.Account, error) {
	if m.AdminAccountsFunc != nil {
		return m.AdminAccountsFunc(realm)
	}
	return nil, nil
}

func (m *MockModerationStorage) AccountById(realm domain.Realm, id domain.AccountId) (domain.Account, error) {
	if m.AccountByIdFunc != nil {
		return m.AccountByIdFunc(realm, id)
	}
	return domain.Account{Id: id, Email: "owner@example.com"}, nil
}

// MockDispatcher records notifications synchronously.
type MockDispatcher struct {
	Sent []notify.Notification
}

func (m *MockDispatcher) Dispatch(n notify.Notification) {
	m.Sent = append(m.Sent, n)
}

type MockContentStorage struct {
	ContentsFunc               func(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error)
	PublishedContentBySlugFunc func(realm domain.Realm, slug domain.Slug) (domain.Content, error)
}

func (m *MockContentStorage) Contents(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error) {
	if m.ContentsFunc != nil {
		return m.ContentsFunc(realm, q)
	}
	return domain.ContentPage{Page: q.Page}, nil
}

func (m *MockContentStorage) PublishedContentBySlug(realm domain.Realm, slug domain.Slug) (domain.Content, error) {
	if m.PublishedContentBySlugFunc != nil {
		return m.PublishedContentBySlugFunc(realm, slug)
	}
	return domain.Content{Slug: slug, Status: domain.StatusPublished}, nil
}

type MockStatsStorage struct {
	StatusCountsFunc  func(realm domain.Realm, ownerId *domain.AccountId) (domain.StatusCounts, error)
	ViewStatsFunc     func(realm domain.Realm, ownerId *domain.AccountId) (domain.ViewStats, error)
	MonthlyCountsFunc func(realm domain.Realm, ownerId *domain.AccountId, months int) ([]domain.MonthBucket, error)
}

func (m *MockStatsStorage) StatusCounts(realm domain.Realm, ownerId *domain.AccountId) (domain.StatusCounts, error) {
	if m.StatusCountsFunc != nil {
		return m.StatusCountsFunc(realm, ownerId)
	}
	return domain.StatusCounts{}, nil
}

func (m *MockStatsStorage) ViewStats(realm domain.Realm, ownerId *domain.AccountId) (domain.ViewStats, error) {
	if m.ViewStatsFunc != nil {
		return m.ViewStatsFunc(realm, ownerId)
	}
	return domain.ViewStats{}, nil
}

func (m *MockStatsStorage) MonthlyCounts(realm domain.Realm, ownerId *domain.AccountId, months int) ([]domain.MonthBucket, error) {
	if m.MonthlyCountsFunc != nil {
		return m.MonthlyCountsFunc(realm, ownerId, months)
	}
	return nil, nil
}

// testConfig returns a config with the blog and event realms wired the way
// most tests need them.
func testConfig() *config.Config {
	return &config.Config{
		Public: config.Public{
			DefaultPageSize: 10,
			MaxPageSize:     100,
			StatsMonths:     12,
			Realms: map[domain.Realm]config.Realm{
				domain.RealmBlog:  {MinRejectNote: 1},
				domain.RealmEvent: {EmailDomain: "example.org", MinRejectNote: 10},
			},
		},
	}
}
