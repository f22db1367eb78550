// Package identity abstracts the external identity provider behind a
// single Verify call. Handlers never touch raw token payloads; they work
// with the typed Claims injected into the request context.
package identity

import (
	"context"
	"errors"
)

// ErrTokenInvalid covers malformed, expired and wrongly signed tokens.
var ErrTokenInvalid = errors.New("token invalid or expired")

// Claims are the identity attributes asserted by the token verifier.
// Role may be empty; resolution then falls back to the persisted user.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

// TokenVerifier maps a bearer credential to identity claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}
