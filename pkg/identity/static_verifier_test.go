package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-16-chars"

func signTestToken(t *testing.T, secret string, claims staticClaims) string {
	t.Helper()
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestStaticVerifier_Verify_Success(t *testing.T) {
	v := NewStaticVerifier(testSecret)

	token := signTestToken(t, testSecret, staticClaims{
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  "TEACHER",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   "uid-alice",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify should succeed: %v", err)
	}
	if claims.UID != "uid-alice" {
		t.Errorf("expected UID=uid-alice, got %s", claims.UID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected Email=alice@example.com, got %s", claims.Email)
	}
	if claims.Role != "TEACHER" {
		t.Errorf("expected Role=TEACHER, got %s", claims.Role)
	}
}

func TestStaticVerifier_Verify_NoRoleClaim(t *testing.T) {
	v := NewStaticVerifier(testSecret)

	token := signTestToken(t, testSecret, staticClaims{
		Email: "bob@example.com",
		Name:  "Bob",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   "uid-bob",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify should succeed: %v", err)
	}
	if claims.Role != "" {
		t.Errorf("expected empty role, got %s", claims.Role)
	}
}

func TestStaticVerifier_Verify_Expired(t *testing.T) {
	v := NewStaticVerifier(testSecret)

	token := signTestToken(t, testSecret, staticClaims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   "uid-x",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := v.Verify(context.Background(), token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestStaticVerifier_Verify_WrongSecret(t *testing.T) {
	v := NewStaticVerifier(testSecret)

	token := signTestToken(t, "another-secret-16-chars!", staticClaims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   "uid-x",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := v.Verify(context.Background(), token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestStaticVerifier_Verify_MissingSubject(t *testing.T) {
	v := NewStaticVerifier(testSecret)

	token := signTestToken(t, testSecret, staticClaims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := v.Verify(context.Background(), token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestStaticVerifier_Verify_Garbage(t *testing.T) {
	v := NewStaticVerifier(testSecret)

	_, err := v.Verify(context.Background(), "not-a-token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
