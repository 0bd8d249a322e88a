package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/readstack/library-system/internal/core/domain"
)

// DefaultTokenTTL applies when no per-request override is supplied.
const DefaultTokenTTL = time.Hour

// TokenCodec signs and verifies stateless session tokens. Validity is decided
// purely by signature and expiry; nothing is persisted.
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenCodec builds a codec around the process-wide signing secret.
func NewTokenCodec(secret string, defaultTTL time.Duration) *TokenCodec {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue signs a token bound to userID expiring after ttl. A non-positive ttl
// falls back to the codec default.
func (tc *TokenCodec) Issue(userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = tc.defaultTTL
	}
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(tc.secret)
}

// IssueWithOverride issues a token honoring a request-supplied TTL override.
// The override applies only when it parses as a positive integer number of
// seconds; anything else keeps the default.
func (tc *TokenCodec) IssueWithOverride(userID, override string) (string, error) {
	ttl := tc.defaultTTL
	if secs, err := strconv.Atoi(override); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	return tc.Issue(userID, ttl)
}

// Verify returns the user id a token was issued for. Bad signature, wrong
// algorithm, malformed payload and expiry all collapse to ErrInvalidToken so
// the middleware's control flow stays uniform.
func (tc *TokenCodec) Verify(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return tc.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
