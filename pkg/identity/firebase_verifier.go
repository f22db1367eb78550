package identity

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier builds a verifier from the shared Firebase app.
func NewFirebaseVerifier(ctx context.Context, app *fb.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify checks the ID token signature and expiry and extracts the claims
// this service cares about. The role claim is optional; users without one
// resolve to STUDENT downstream.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		claims.Name = name
	}
	if role, ok := decoded.Claims["role"].(string); ok {
		claims.Role = role
	}

	return claims, nil
}
