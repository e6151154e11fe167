// Package auth verifies bearer credentials issued by the upstream identity
// provider. Token issuance lives outside this service.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Claims represents the JWT claims carried by a bearer token.
type Claims struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

var (
	// ErrInvalidToken covers malformed, expired or badly signed tokens.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Verifier parses and validates HMAC-signed bearer tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier with the shared signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses the token string and returns the identity it asserts.
// Permission claims are only trusted for platform roles; institution-scoped
// roles get their effective set re-loaded by the permission guard.
func (v *Verifier) Verify(tokenString string) (shared.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return shared.Identity{}, ErrInvalidToken
	}
	if claims.Role == "" {
		return shared.Identity{}, ErrInvalidToken
	}

	ident := shared.Identity{UserID: userID, Role: claims.Role}
	if shared.IsPlatformRole(claims.Role) {
		ident.Permissions = claims.Permissions
	}
	return ident, nil
}
