package dto

import "time"

// ── leave DTOs ──

// ApplyLeaveRequest creates a new leave request. Dates are inclusive
// calendar days.
type ApplyLeaveRequest struct {
	FromDate string `json:"from_date" binding:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date"   binding:"required,datetime=2006-01-02"`
	Reason   string `json:"reason"    binding:"required,min=5,max=1000"`
}

// LeaveResponse is one leave request in any view.
type LeaveResponse struct {
	ID           uint       `json:"id"`
	StudentID    uint       `json:"student_id"`
	StudentName  string     `json:"student_name,omitempty"`
	StudentEmail string     `json:"student_email,omitempty"`
	FromDate     string     `json:"from_date"`
	ToDate       string     `json:"to_date"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	ReviewedBy   *uint      `json:"reviewed_by,omitempty"`
	ReviewerName *string    `json:"reviewer_name,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LeaveActionRequest approves or rejects a single request. The API takes
// action verbs; the store only ever holds APPROVED/REJECTED.
type LeaveActionRequest struct {
	Action string `json:"action" binding:"required,oneof=APPROVE REJECT"`
}

// LeaveActionResponse reports the decision and the notification outcome.
// A failed push never fails the action.
type LeaveActionResponse struct {
	Success          bool           `json:"success"`
	Message          string         `json:"message"`
	NotificationSent bool           `json:"notification_sent"`
	LeaveRequest     *LeaveResponse `json:"leave_request"`
}

// BatchActionRequest applies one decision to up to 50 requests.
type BatchActionRequest struct {
	LeaveIDs []uint `json:"leave_ids" binding:"required"`
	Action   string `json:"action"    binding:"required,oneof=APPROVE REJECT"`
}

// ProcessedLeave is one successfully decided request in a batch.
type ProcessedLeave struct {
	ID               uint `json:"id"`
	NotificationSent bool `json:"notification_sent"`
}

// FailedLeave is one request a batch could not process.
type FailedLeave struct {
	ID    uint   `json:"id"`
	Error string `json:"error"`
}

// BatchActionResponse reports per-item outcomes. Non-PENDING ids are
// filtered out before processing and appear in neither list.
type BatchActionResponse struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	Status       string           `json:"status"`
	Processed    []ProcessedLeave `json:"processed_ids"`
	Failed       []FailedLeave    `json:"failed_ids"`
	TotalCount   int              `json:"total_count"`
	SuccessCount int              `json:"success_count"`
}

// ListLeavesRequest filters the admin listing.
type ListLeavesRequest struct {
	Status string `form:"status" binding:"omitempty,max=50"`
}
