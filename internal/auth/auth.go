// Package auth verifies the bearer tokens issued at login and carries the
// authenticated identity through the request context.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/florisapp/floris-go/internal/domain"
)

// Claims are the token claims issued at login. Subject carries the user id.
type Claims struct {
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens against the shared signing secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given HS256 secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// ParseBearer extracts and verifies the token from an Authorization header
// value. Returns the claims on success.
func (v *Verifier) ParseBearer(header string) (*Claims, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, fmt.Errorf("%w: missing bearer token", domain.ErrInvalidInput)
	}
	return v.Parse(strings.TrimPrefix(header, prefix))
}

// Parse verifies a raw token string and returns its claims.
func (v *Verifier) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Sign issues a token for the given user id. Used by tests and local tooling;
// production tokens come from the login service.
func (v *Verifier) Sign(userID, nickname string) (string, error) {
	claims := &Claims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

type ctxKey string

const userIDKey ctxKey = "authUserID"

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user id, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return "", false
	}
	if id, ok := v.(string); ok && id != "" {
		return id, true
	}
	return "", false
}
