package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/service"
	"github.com/Masaru124/Attendance-app/pkg/response"
)

// UserHandler serves the user administration endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me returns the caller's persisted profile, provisioning it on first call.
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetOrCreateByClaims(c.Request.Context(), claims, model.RoleStudent)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.UserResponse{
		ID:          user.ID,
		FirebaseUID: user.FirebaseUID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	})
}

// List returns every user.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": users})
}

// UpdateRole changes a user's role.
// PUT /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	user, err := h.userSvc.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "user not found")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 20002, "invalid role")
	default:
		response.InternalError(c)
	}
}
