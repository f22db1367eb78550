package model

import "time"

// ── role constants ──

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

// ValidRole reports whether s is one of the known role strings.
// Roles are case-sensitive uppercase.
func ValidRole(s string) bool {
	switch s {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// ── attendance status constants ──

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
	StatusExcused = "EXCUSED"
)

// ── leave status constants ──

const (
	LeavePending  = "PENDING"
	LeaveApproved = "APPROVED"
	LeaveRejected = "REJECTED"
)

// Timestamps are the audit fields embedded by every model.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
