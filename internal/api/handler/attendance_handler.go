package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/service"
	"github.com/Masaru124/Attendance-app/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceHandler serves the session and record endpoints.
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	exportSvc     service.ExportService
}

// NewAttendanceHandler creates an AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService, exportSvc service.ExportService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, exportSvc: exportSvc}
}

// CreateSession opens a new attendance session.
// POST /api/v1/attendance/sessions
func (h *AttendanceHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	session, err := h.attendanceSvc.CreateSession(c.Request.Context(), &req, claims.UID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, session)
}

// ListSessions returns every session.
// GET /api/v1/attendance/sessions
func (h *AttendanceHandler) ListSessions(c *gin.Context) {
	sessions, err := h.attendanceSvc.ListSessions(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// GetSession returns one session.
// GET /api/v1/attendance/sessions/:id
func (h *AttendanceHandler) GetSession(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	session, err := h.attendanceSvc.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, session)
}

// SessionQR returns the session QR code as a base64 PNG.
// GET /api/v1/attendance/sessions/:id/qr
func (h *AttendanceHandler) SessionQR(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	qr, err := h.attendanceSvc.SessionQR(c.Request.Context(), id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, qr)
}

// CloseSession stops further check-ins.
// POST /api/v1/attendance/sessions/:id/close
func (h *AttendanceHandler) CloseSession(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.attendanceSvc.CloseSession(c.Request.Context(), id); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "session closed"})
}

// Mark records the caller's check-in for a session.
// POST /api/v1/attendance/mark
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.Mark(c.Request.Context(), req.SessionID, claims)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, result)
}

// MyRecords returns the caller's attendance history.
// GET /api/v1/attendance/my
func (h *AttendanceHandler) MyRecords(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	records, err := h.attendanceSvc.MyRecords(c.Request.Context(), claims)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// SessionRecords returns every record of a session with per-status totals.
// GET /api/v1/attendance/sessions/:id/records
func (h *AttendanceHandler) SessionRecords(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	summary, err := h.attendanceSvc.SessionSummary(c.Request.Context(), id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, summary)
}

// ExportSession downloads a session's records as an xlsx workbook.
// GET /api/v1/attendance/sessions/:id/export
func (h *AttendanceHandler) ExportSession(c *gin.Context) {
	id, ok := ParamUint(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.SessionSheet(c.Request.Context(), id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 30001, "attendance session not found")
	case errors.Is(err, service.ErrSessionClosed):
		response.Conflict(c, 30002, "attendance session has been closed")
	case errors.Is(err, service.ErrAlreadyMarked):
		response.Conflict(c, 30003, "attendance already marked for this session")
	default:
		response.InternalError(c)
	}
}
