package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
	"github.com/pressgate-dev/pressgate/internal/logger"
)

// Claims is the decoded, validated payload of a session token.
type Claims struct {
	AccountId domain.AccountId
	Email     domain.Email
	Admin     bool
	IssuedAt  time.Time
}

type JwtService interface {
	NewToken(account domain.Account, admin bool) (string, error)
	DecodeToken(jwtStr string) (Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

// NewToken issues a signed token for the account. The admin argument is the
// effective admin decision at issuance time; the identity resolver
// recomputes it on every request, so the claim is only a hint.
func (j *Jwt) NewToken(account domain.Account, admin bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	claims["uid"] = account.Id
	claims["email"] = account.Email
	claims["admin"] = admin
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

// DecodeToken verifies signature and expiry and extracts the claims.
// Expired and malformed tokens produce distinct 401 messages.
func (j *Jwt) DecodeToken(jwtStr string) (Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, internal_errors.Unauthorized("Token expired")
		}
		return Claims{}, internal_errors.Unauthorized("Invalid token")
	}
	if !token.Valid {
		return Claims{}, internal_errors.Unauthorized("Invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, internal_errors.Unauthorized("Invalid token claims")
	}

	uid, ok := mapClaims["uid"].(float64)
	if !ok {
		return Claims{}, internal_errors.Unauthorized("Invalid token claims")
	}
	email, ok := mapClaims["email"].(string)
	if !ok {
		return Claims{}, internal_errors.Unauthorized("Invalid token claims")
	}
	admin, _ := mapClaims["admin"].(bool)

	var issuedAt time.Time
	if iat, ok := mapClaims["iat"].(float64); ok {
		issuedAt = time.Unix(int64(iat), 0)
	}

	return Claims{
		AccountId: domain.AccountId(uid),
		Email:     email,
		Admin:     admin,
		IssuedAt:  issuedAt,
	}, nil
}
