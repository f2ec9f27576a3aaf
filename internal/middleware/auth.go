package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/jwt"
	"github.com/pressgate-dev/pressgate/internal/service"
)

// Key to store the resolved caller in the request context.
type key int

const callerKey key = 0

// AccountStorage is the live-account lookup the identity resolver performs
// on every authenticated request.
type AccountStorage interface {
	AccountById(realm domain.Realm, id domain.AccountId) (domain.Account, error)
}

type JwtDecoder interface {
	DecodeToken(jwtStr string) (jwt.Claims, error)
}

type Auth struct {
	jwt     JwtDecoder
	storage AccountStorage
	cfg     *config.Config
}

func NewAuth(jwtService JwtDecoder, storage AccountStorage, cfg *config.Config) *Auth {
	return &Auth{jwt: jwtService, storage: storage, cfg: cfg}
}

// resolve turns the bearer token into a live account. 401 on any failure:
// missing header, bad or expired token, deleted account, or a token minted
// before the account's credentials last changed.
func (a *Auth) resolve(r *http.Request) (service.Caller, error) {
	realm := chi.URLParam(r, "realm")
	if _, ok := a.cfg.Realm(realm); !ok {
		return service.Caller{}, internal_errors.NotFound("Unknown realm")
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return service.Caller{}, internal_errors.Unauthorized("Missing authorization header")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return service.Caller{}, internal_errors.Unauthorized("Authorization header must be a bearer token")
	}

	claims, err := a.jwt.DecodeToken(token)
	if err != nil {
		return service.Caller{}, err
	}

	account, err := a.storage.AccountById(realm, claims.AccountId)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return service.Caller{}, internal_errors.Unauthorized("Account no longer exists")
		}
		return service.Caller{}, err
	}
	if account.Deleted {
		return service.Caller{}, internal_errors.Unauthorized("Account is deactivated")
	}
	// Tokens issued before a password change, soft delete or restore are
	// dead even if their expiry has not passed yet.
	// Claims carry second resolution, the database column does not.
	if claims.IssuedAt.Before(account.CredentialsChangedAt.Truncate(time.Second)) {
		return service.Caller{}, internal_errors.Unauthorized("Token no longer valid, please sign in again")
	}

	admin := account.Admin || a.cfg.IsAllowListed(account.Email)
	return service.Caller{Account: account, Admin: admin}, nil
}

func (a *Auth) middleware(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := a.resolve(r)
			if err != nil {
				writeError(w, err)
				return
			}
			if adminOnly && !caller.Admin {
				writeError(w, internal_errors.Forbidden("Administrator privileges required"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// NeedAuth requires a valid token belonging to a live account.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.middleware(false)
}

// AdminOnly additionally requires effective admin. Distinct from NeedAuth
// failures: a valid non-admin identity gets 403, not 401.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.middleware(true)
}

// WithCaller attaches a resolved identity to the context.
func WithCaller(ctx context.Context, caller service.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// GetCaller retrieves the resolved identity from the request context.
func GetCaller(r *http.Request) (service.Caller, bool) {
	caller, ok := r.Context().Value(callerKey).(service.Caller)
	return caller, ok
}

// ValidRealm rejects requests addressing a realm that is not configured.
// Public routes use this alone; authenticated routes get the same check
// inside the resolver.
func ValidRealm(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			realm := chi.URLParam(r, "realm")
			if _, ok := cfg.Realm(realm); !ok {
				writeError(w, internal_errors.NotFound("Unknown realm"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
