package identity

import (
	"context"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// staticClaims is the JWT payload accepted by the static verifier.
// Subject carries the user's external id.
type staticClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	jwtv5.RegisteredClaims
}

// StaticVerifier accepts locally signed HS256 tokens. It exists so the
// server can run without Firebase credentials in development and tests;
// production deployments use FirebaseVerifier.
type StaticVerifier struct {
	secret []byte
}

// NewStaticVerifier creates a verifier for the given shared secret.
func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{secret: []byte(secret)}
}

// Verify parses and validates an HS256 token.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	parsed, err := jwtv5.ParseWithClaims(token, &staticClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*staticClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &Claims{
		UID:   claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}
