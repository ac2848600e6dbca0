// FilePath: internal/auth/token.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hidrosense/hub/internal/models"
)

// ErrTokenInvalid covers every rejection: malformed token, signature or
// algorithm mismatch, expiry in the past, missing subject.
var ErrTokenInvalid = errors.New("token invalid")

// DefaultTokenTTL applies when no TTL is configured.
const DefaultTokenTTL = 30 * time.Minute

// Claims is the token payload: subject carries the user email, plus the
// role and full name captured at issuance. Role here is informational for
// the client; protected calls re-derive the authoritative role from the
// user directory.
type Claims struct {
	jwt.RegisteredClaims
	Role     models.Role `json:"role"`
	FullName string      `json:"full_name,omitempty"`
}

// TokenService issues and validates signed bearer tokens. Validation is
// purely cryptographic; no store is consulted.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with HS256.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token asserting identity and role, expiring at
// now + TTL.
func (s *TokenService) Issue(subject string, role models.Role, fullName string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role:     role,
		FullName: fullName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm and expiry, and extracts the
// claims. Only HS256 is accepted; tokens signed any other way are
// rejected before the signature check.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return claims, nil
}
