package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Masaru124/Attendance-app/pkg/identity"
	"github.com/Masaru124/Attendance-app/pkg/response"
)

// MustGetClaims extracts the verified identity claims injected by the
// authentication middleware. On failure it writes a 401 response; the
// caller should return immediately when ok is false.
func MustGetClaims(c *gin.Context) (*identity.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	claims, ok := v.(*identity.Claims)
	if !ok || claims.UID == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return claims, true
}

// ParamUint parses a numeric path parameter. On failure it writes a 400
// response and returns false.
func ParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
