package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/service"
	"github.com/Masaru124/Attendance-app/pkg/response"
)

// LeaveHandler serves the leave-request endpoints.
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler creates a LeaveHandler.
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// Apply submits a new leave request.
// POST /api/v1/leave/apply
func (h *LeaveHandler) Apply(c *gin.Context) {
	var req dto.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Apply(c.Request.Context(), claims, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, leave)
}

// MyLeaves returns the caller's leave requests.
// GET /api/v1/leave/my
func (h *LeaveHandler) MyLeaves(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	leaves, err := h.leaveSvc.MyLeaves(c.Request.Context(), claims)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": leaves})
}

// PendingLeaves returns every request still awaiting review.
// GET /api/v1/leave/pending
func (h *LeaveHandler) PendingLeaves(c *gin.Context) {
	leaves, err := h.leaveSvc.PendingLeaves(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": leaves})
}

// AllLeaves returns every request, optionally filtered by status.
// GET /api/v1/leave/all?status=PENDING
func (h *LeaveHandler) AllLeaves(c *gin.Context) {
	var req dto.ListLeavesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	leaves, err := h.leaveSvc.AllLeaves(c.Request.Context(), req.Status)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": leaves})
}

// GetLeave returns one leave request.
// GET /api/v1/leave/:id
func (h *LeaveHandler) GetLeave(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	leave, err := h.leaveSvc.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// Review approves or rejects one leave request.
// POST /api/v1/leave/:id/action
func (h *LeaveHandler) Review(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.LeaveActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "action must be APPROVE or REJECT")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Review(c.Request.Context(), id, claims, req.Action)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// BatchReview applies one decision to a list of requests.
// POST /api/v1/leave/batch-action
func (h *LeaveHandler) BatchReview(c *gin.Context) {
	var req dto.BatchActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.BatchReview(c.Request.Context(), claims, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// Cancel withdraws the caller's own pending request.
// DELETE /api/v1/leave/:id
func (h *LeaveHandler) Cancel(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.leaveSvc.Cancel(c.Request.Context(), id, claims); err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "leave request cancelled"})
}

// Calendar downloads the caller's approved leaves as an iCalendar file.
// GET /api/v1/leave/my/calendar.ics
func (h *LeaveHandler) Calendar(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	cal, err := h.leaveSvc.ApprovedCalendar(c.Request.Context(), claims)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="approved_leaves.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal))
}

func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 40001, "leave request not found")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 40002, "end date must be on or after start date")
	case errors.Is(err, service.ErrOnlyStudents):
		response.Forbidden(c, 40003, "only students can apply for leave")
	case errors.Is(err, service.ErrAlreadyReviewed):
		response.Conflict(c, 40004, "leave request has already been reviewed")
	case errors.Is(err, service.ErrNotPending):
		response.Conflict(c, 40005, "only pending leave requests can be cancelled")
	case errors.Is(err, service.ErrEmptyBatch):
		response.BadRequest(c, 40006, "leave id list is empty")
	case errors.Is(err, service.ErrBatchTooLarge):
		response.BadRequest(c, 40007, "too many leave ids in one batch")
	case errors.Is(err, service.ErrInvalidAction):
		response.BadRequest(c, 40008, "action must be APPROVE or REJECT")
	default:
		response.InternalError(c)
	}
}
