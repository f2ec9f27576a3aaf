package handler

import (
	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	"github.com/pressgate-dev/pressgate/internal/service"
)

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc       func(realm domain.Realm, name string, creds domain.Credentials) (domain.AccountId, error)
	LoginFunc          func(realm domain.Realm, creds domain.Credentials) (string, error)
	ChangePasswordFunc func(realm domain.Realm, id domain.AccountId, oldPassword, newPassword domain.Password) error
	CreateAccountFunc  func(realm domain.Realm, name string, creds domain.Credentials, admin bool) (domain.AccountId, error)
	SoftDeleteFunc     func(realm domain.Realm, id domain.AccountId) error
	RestoreFunc        func(realm domain.Realm, id domain.AccountId) error
}

func (m *MockAuthService) Register(realm domain.Realm, name string, creds domain.Credentials) (domain.AccountId, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(realm, name, creds)
	}
	return 1, nil
}

func (m *MockAuthService) Login(realm domain.Realm, creds domain.Credentials) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(realm, creds)
	}
	return "token", nil
}

func (m *MockAuthService) ChangePassword(realm domain.Realm, id domain.AccountId, oldPassword, newPassword domain.Password) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(realm, id, oldPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) CreateAccount(realm domain.Realm, name string, creds domain.Credentials, admin bool) (domain.AccountId, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(realm, name, creds, admin)
	}
	return 1, nil
}

func (m *MockAuthService) SoftDelete(realm domain.Realm, id domain.AccountId) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(realm, id)
	}
	return nil
}

func (m *MockAuthService) Restore(realm domain.Realm, id domain.AccountId) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(realm, id)
	}
	return nil
}

type MockModerationService struct {
	SubmitFunc   func(realm domain.Realm, caller service.Caller, draft domain.ContentDraft) (domain.Content, error)
	ApproveFunc  func(realm domain.Realm, caller service.Caller, id domain.ContentId) (domain.Content, error)
	RejectFunc   func(realm domain.Realm, caller service.Caller, id domain.ContentId, note string) (domain.Content, error)
	ResubmitFunc func(realm domain.Realm, caller service.Caller, id domain.ContentId, draft domain.ContentDraft) (domain.Content, error)
	DeleteFunc   func(realm domain.Realm, caller service.Caller, id domain.ContentId) error
}

func (m *MockModerationService) Submit(realm domain.Realm, caller service.Caller, draft domain.ContentDraft) (domain.Content, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(realm, caller, draft)
	}
	return domain.Content{Id: 1, Title: draft.Title, Status: domain.StatusPending}, nil
}

func (m *MockModerationService) Approve(realm domain.Realm, caller service.Caller, id domain.ContentId) (domain.Content, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(realm, caller, id)
	}
	return domain.Content{Id: id, Status: domain.StatusPublished}, nil
}

func (m *MockModerationService) Reject(realm domain.Realm, caller service.Caller, id domain.ContentId, note string) (domain.Content, error) {
	if m.RejectFunc != nil {
		return m.RejectFunc(realm, caller, id, note)
	}
	return domain.Content{Id: id, Status: domain.StatusRejected, ReviewNote: note}, nil
}

func (m *MockModerationService) Resubmit(realm domain.Realm, caller service.Caller, id domain.ContentId, draft domain.ContentDraft) (domain.Content, error) {
	if m.ResubmitFunc != nil {
		return m.ResubmitFunc(realm, caller, id, draft)
	}
	return domain.Content{Id: id, Status: domain.StatusPending}, nil
}

func (m *MockModerationService) Delete(realm domain.Realm, caller service.Caller, id domain.ContentId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(realm, caller, id)
	}
	return nil
}

type MockContentService struct {
	ListPublishedFunc func(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error)
	GetPublishedFunc  func(realm domain.Realm, slug domain.Slug) (domain.Content, error)
	ListOwnFunc       func(realm domain.Realm, ownerId domain.AccountId, q domain.ContentQuery) (domain.ContentPage, error)
	ListPendingFunc   func(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error)
}

func (m *MockContentService) ListPublished(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error) {
	if m.ListPublishedFunc != nil {
		return m.ListPublishedFunc(realm, q)
	}
	return domain.ContentPage{Page: 1}, nil
}

func (m *MockContentService) GetPublished(realm domain.Realm, slug domain.Slug) (domain.Content, error) {
	if m.GetPublishedFunc != nil {
		return m.GetPublishedFunc(realm, slug)
	}
	return domain.Content{Slug: slug, Status: domain.StatusPublished}, nil
}

func (m *MockContentService) ListOwn(realm domain.Realm, ownerId domain.AccountId, q domain.ContentQuery) (domain.ContentPage, error) {
	if m.ListOwnFunc != nil {
		return m.ListOwnFunc(realm, ownerId, q)
	}
	return domain.ContentPage{Page: 1}, nil
}

func (m *MockContentService) ListPending(realm domain.Realm, q domain.ContentQuery) (domain.ContentPage, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(realm, q)
	}
	return domain.ContentPage{Page: 1}, nil
}

type MockStatsService struct {
	OwnerStatsFunc  func(realm domain.Realm, ownerId domain.AccountId) (domain.Stats, error)
	GlobalStatsFunc func(realm domain.Realm) (domain.Stats, error)
}

func (m *MockStatsService) OwnerStats(realm domain.Realm, ownerId domain.AccountId) (domain.Stats, error) {
	if m.OwnerStatsFunc != nil {
		return m.OwnerStatsFunc(realm, ownerId)
	}
	return domain.Stats{}, nil
}

func (m *MockStatsService) GlobalStats(realm domain.Realm) (domain.Stats, error) {
	if m.GlobalStatsFunc != nil {
		return m.GlobalStatsFunc(realm)
	}
	return domain.Stats{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Public: config.Public{
			DefaultPageSize: 10,
			MaxPageSize:     100,
			Realms: map[domain.Realm]config.Realm{
				domain.RealmBlog: {MinRejectNote: 1},
			},
		},
	}
}
