// Package auth verifies bearer tokens issued by the identity provider and turns them into
// a shared.Caller. It can also mint tokens for local tooling and tests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/asc-rental-marketplace/internal/config"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

var (
	ErrMissingSubject = errors.New("token has no subject")
	ErrInvalidRole    = errors.New("token carries an unknown role")
)

// Claims is the identity provider token payload
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

// Issue mints a token for userID with the given role
func (m *TokenManager) Issue(userID string, role shared.Role) (string, error) {
	now := m.now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify validates signature, issuer and expiry and returns the caller the token describes.
// The correlation id is left for the transport to fill in.
func (m *TokenManager) Verify(tokenStr string) (shared.Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return shared.Caller{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return shared.Caller{}, jwt.ErrSignatureInvalid
	}

	if claims.Subject == "" {
		return shared.Caller{}, ErrMissingSubject
	}
	role := shared.Role(claims.Role)
	if !role.Valid() {
		return shared.Caller{}, ErrInvalidRole
	}

	return shared.Caller{UserID: claims.Subject, Role: role}, nil
}
