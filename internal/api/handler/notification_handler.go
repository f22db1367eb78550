package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/service"
	"github.com/Masaru124/Attendance-app/pkg/response"
)

// NotificationHandler serves the device-token endpoints.
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// SaveToken registers or refreshes a device token for the caller.
// POST /api/v1/notifications/fcm-token
func (h *NotificationHandler) SaveToken(c *gin.Context) {
	var req dto.SaveFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	token, err := h.notificationSvc.SaveToken(c.Request.Context(), claims, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, token)
}

// DeleteToken removes one of the caller's device tokens.
// DELETE /api/v1/notifications/fcm-token?token=xxx
func (h *NotificationHandler) DeleteToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, 10001, "token query parameter is required")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.DeleteToken(c.Request.Context(), claims, token); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "token removed"})
}

// ListTokens returns the caller's registered device tokens.
// GET /api/v1/notifications/tokens
func (h *NotificationHandler) ListTokens(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	tokens, err := h.notificationSvc.ListTokens(c.Request.Context(), claims)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": tokens})
}

func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTokenNotFound):
		response.NotFound(c, 50001, "device token not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "user not found")
	default:
		response.InternalError(c)
	}
}
