package service

import (
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	"github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/logger"
)

type AuthService interface {
	Register(realm domain.Realm, name string, creds domain.Credentials) (domain.AccountId, error)
	Login(realm domain.Realm, creds domain.Credentials) (string, error)
	ChangePassword(realm domain.Realm, id domain.AccountId, oldPassword, newPassword domain.Password) error
	CreateAccount(realm domain.Realm, name string, creds domain.Credentials, admin bool) (domain.AccountId, error)
	SoftDelete(realm domain.Realm, id domain.AccountId) error
	Restore(realm domain.Realm, id domain.AccountId) error
}

type AuthStorage interface {
	SaveAccount(realm domain.Realm, account domain.Account) (domain.AccountId, error)
	LiveAccountByEmail(realm domain.Realm, email domain.Email) (domain.Account, error)
	AccountById(realm domain.Realm, id domain.AccountId) (domain.Account, error)
	UpdatePassword(realm domain.Realm, id domain.AccountId, passHash string) error
	SoftDeleteAccount(realm domain.Realm, id domain.AccountId) error
	RestoreAccount(realm domain.Realm, id domain.AccountId) error
	TouchLastLogin(realm domain.Realm, id domain.AccountId) error
}

type Jwt interface {
	NewToken(account domain.Account, admin bool) (string, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
	cfg     *config.Config
}

func NewAuth(storage AuthStorage, jwt Jwt, cfg *config.Config) *Auth {
	return &Auth{storage: storage, jwt: jwt, cfg: cfg}
}

// validateEmail checks syntax and, when the realm restricts registration to
// one domain, membership in that domain.
func (a *Auth) validateEmail(realmCfg config.Realm, email domain.Email) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.Validation("Invalid email address")
	}
	if realmCfg.EmailDomain != "" {
		at := strings.LastIndex(email, "@")
		if at < 0 || !strings.EqualFold(email[at+1:], realmCfg.EmailDomain) {
			return errors.Validation("Email domain not allowed for this realm")
		}
	}
	return nil
}

// Register creates a regular contributor account via self-registration.
func (a *Auth) Register(realm domain.Realm, name string, creds domain.Credentials) (domain.AccountId, error) {
	return a.createAccount(realm, name, creds, false)
}

// CreateAccount is the admin-initiated variant; it may grant the stored
// admin flag.
func (a *Auth) CreateAccount(realm domain.Realm, name string, creds domain.Credentials, admin bool) (domain.AccountId, error) {
	return a.createAccount(realm, name, creds, admin)
}

func (a *Auth) createAccount(realm domain.Realm, name string, creds domain.Credentials, admin bool) (domain.AccountId, error) {
	realmCfg, ok := a.cfg.Realm(realm)
	if !ok {
		return -1, errors.NotFound("Unknown realm")
	}

	email := strings.ToLower(creds.Email)
	if err := a.validateEmail(realmCfg, email); err != nil {
		return -1, err
	}
	if len(creds.Password) < 8 {
		return -1, errors.Validation("Password must be at least 8 characters")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return -1, err
	}

	id, err := a.storage.SaveAccount(realm, domain.Account{
		Name:     name,
		Email:    email,
		PassHash: string(passHash),
		Admin:    admin,
	})
	if err != nil {
		return -1, err
	}
	return id, nil
}

// Login verifies credentials and returns an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (a *Auth) Login(realm domain.Realm, creds domain.Credentials) (string, error) {
	if _, ok := a.cfg.Realm(realm); !ok {
		return "", errors.NotFound("Unknown realm")
	}

	email := strings.ToLower(creds.Email)
	account, err := a.storage.LiveAccountByEmail(realm, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.Unauthorized("Invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PassHash), []byte(creds.Password)); err != nil {
		return "", errors.Unauthorized("Invalid credentials")
	}

	effectiveAdmin := account.Admin || a.cfg.IsAllowListed(account.Email)
	token, err := a.jwt.NewToken(account, effectiveAdmin)
	if err != nil {
		logger.Log.Error("failed to create token", "realm", realm, "account_id", account.Id, "error", err)
		return "", err
	}

	// Best effort; a failed timestamp update must not fail the login.
	if err := a.storage.TouchLastLogin(realm, account.Id); err != nil {
		logger.Log.Warn("failed to record last login", "realm", realm, "account_id", account.Id, "error", err)
	}

	return token, nil
}

// ChangePassword verifies the old secret before storing a new hash. The
// storage layer bumps credentials_changed_at, which invalidates tokens
// issued before the change.
func (a *Auth) ChangePassword(realm domain.Realm, id domain.AccountId, oldPassword, newPassword domain.Password) error {
	account, err := a.storage.AccountById(realm, id)
	if err != nil {
		return err
	}
	if account.Deleted {
		return errors.NotFound("Account not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PassHash), []byte(oldPassword)); err != nil {
		return errors.Unauthorized("Invalid credentials")
	}
	if len(newPassword) < 8 {
		return errors.Validation("Password must be at least 8 characters")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	return a.storage.UpdatePassword(realm, id, string(passHash))
}

// SoftDelete marks an account deleted. Content owned by the account is left
// untouched; its ownership reference stays valid for display.
func (a *Auth) SoftDelete(realm domain.Realm, id domain.AccountId) error {
	return a.storage.SoftDeleteAccount(realm, id)
}

func (a *Auth) Restore(realm domain.Realm, id domain.AccountId) error {
	return a.storage.RestoreAccount(realm, id)
}
