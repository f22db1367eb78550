package dto

import "time"

// ── attendance DTOs ──

// CreateSessionRequest opens a new attendance session.
type CreateSessionRequest struct {
	SessionName string `json:"session_name" binding:"required,min=1,max=255"`
	Location    string `json:"location"     binding:"omitempty,max=255"`
}

// CreateSessionResponse returns the new session together with the QR
// payload clients render for scanning.
type CreateSessionResponse struct {
	SessionID   uint      `json:"session_id"`
	SessionName string    `json:"session_name"`
	QRData      string    `json:"qr_data"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionResponse is one session in list/detail views.
type SessionResponse struct {
	ID           uint    `json:"id"`
	SessionName  string  `json:"session_name"`
	Location     *string `json:"location,omitempty"`
	CreatedBy    string  `json:"created_by,omitempty"`
	CreatedAt    string  `json:"created_at"`
	IsClosed     bool    `json:"is_closed"`
	TotalRecords int64   `json:"total_records"`
}

// SessionQRResponse carries the QR payload and its rendered PNG.
type SessionQRResponse struct {
	SessionID     uint   `json:"session_id"`
	SessionName   string `json:"session_name"`
	QRImageBase64 string `json:"qr_image_base64"`
	QRData        string `json:"qr_data"`
}

// MarkAttendanceRequest marks the caller present for a session.
type MarkAttendanceRequest struct {
	SessionID uint `json:"session_id" binding:"required"`
}

// MarkAttendanceResponse reports the classification outcome.
type MarkAttendanceResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AttendanceID uint   `json:"attendance_id"`
	Status       string `json:"status"`
	CheckInTime  string `json:"check_in_time"`
}

// MyAttendanceRecord is one row of a student's own history.
type MyAttendanceRecord struct {
	ID           uint    `json:"id"`
	SessionID    uint    `json:"session_id"`
	SessionName  string  `json:"session_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	Location     *string `json:"location,omitempty"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

// SessionRecordEntry is one student's outcome inside a session summary.
type SessionRecordEntry struct {
	ID           uint    `json:"id"`
	StudentID    uint    `json:"student_id"`
	StudentName  string  `json:"student_name"`
	StudentEmail string  `json:"student_email,omitempty"`
	Status       string  `json:"status"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

// SessionAttendanceResponse is the per-session summary with status counts.
// TotalAbsent stays 0: nothing ever writes ABSENT records.
type SessionAttendanceResponse struct {
	Session      SessionResponse      `json:"session"`
	Records      []SessionRecordEntry `json:"records"`
	TotalPresent int                  `json:"total_present"`
	TotalAbsent  int                  `json:"total_absent"`
	TotalLate    int                  `json:"total_late"`
}
