package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/internal/service"
	"github.com/Masaru124/Attendance-app/pkg/identity"
	"github.com/Masaru124/Attendance-app/pkg/redis"
	"github.com/Masaru124/Attendance-app/pkg/response"
)

const (
	claimsKey = "claims"
	roleKey   = "role"

	claimsCacheTTL = 5 * time.Minute
)

// Authenticate extracts the bearer token, verifies it and injects the
// resulting identity claims into the request context. Verified claims are
// cached in Redis keyed by a token digest; a nil rdb disables the cache.
func Authenticate(verifier identity.TokenVerifier, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "invalid authorization header format")
			c.Abort()
			return
		}
		token := parts[1]

		digest := tokenDigest(token)
		if claims := cachedClaims(c, rdb, digest); claims != nil {
			c.Set(claimsKey, claims)
			c.Next()
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, identity.ErrTokenInvalid) {
				logger.Error("token verification failed", zap.Error(err))
			}
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		cacheClaims(c, rdb, digest, claims)

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles resolves the caller's role and rejects callers outside the
// allowed set. Must run after Authenticate.
func RequireRoles(access service.AccessService, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(claimsKey)
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}
		claims := v.(*identity.Claims)

		role, err := access.Authorize(c.Request.Context(), claims, allowedRoles...)
		if err != nil {
			var denied *service.AccessDeniedError
			if errors.As(err, &denied) {
				response.ErrorWithDetails(c, http.StatusForbidden, 10003, "insufficient permissions", denied.Error())
				c.Abort()
				return
			}
			response.InternalError(c)
			c.Abort()
			return
		}

		c.Set(roleKey, role)
		c.Next()
	}
}

// tokenDigest keys the claims cache without storing raw tokens.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func cachedClaims(c *gin.Context, rdb *redis.Client, digest string) *identity.Claims {
	if rdb == nil {
		return nil
	}
	raw, err := rdb.GetClaims(c.Request.Context(), digest)
	if err != nil || raw == "" {
		return nil
	}
	var claims identity.Claims
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		return nil
	}
	return &claims
}

func cacheClaims(c *gin.Context, rdb *redis.Client, digest string, claims *identity.Claims) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		return
	}
	// best effort: a cache write failure never blocks the request
	_ = rdb.SetClaims(c.Request.Context(), digest, string(raw), claimsCacheTTL)
}
