package model

import "time"

// LeaveRequest — leave_requests table. PENDING until a staff decision;
// APPROVED/REJECTED are terminal. Pending requests may be deleted by their
// owner.
type LeaveRequest struct {
	ID         uint       `gorm:"primaryKey"                                  json:"id"`
	StudentID  uint       `gorm:"not null;index"                              json:"student_id"`
	FromDate   time.Time  `gorm:"type:date;not null"                          json:"from_date"`
	ToDate     time.Time  `gorm:"type:date;not null"                          json:"to_date"`
	Reason     string     `gorm:"type:text;not null"                          json:"reason"`
	Status     string     `gorm:"type:varchar(50);not null;default:'PENDING';index" json:"status"`
	ReviewedBy *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Timestamps
}

// TableName sets the table name.
func (LeaveRequest) TableName() string { return "leave_requests" }
