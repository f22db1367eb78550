package model

import "time"

// AttendanceSession — attendance_sessions table. A named window students
// mark against; closing is one-way.
type AttendanceSession struct {
	ID          uint    `gorm:"primaryKey"                  json:"id"`
	SessionName string  `gorm:"type:varchar(255);not null"  json:"session_name"`
	Location    *string `gorm:"type:varchar(255)"           json:"location,omitempty"`
	CreatedBy   string  `gorm:"type:varchar(128);not null"  json:"created_by"` // verifier UID
	IsClosed    bool    `gorm:"not null;default:false"      json:"is_closed"`
	Timestamps
}

// TableName sets the table name.
func (AttendanceSession) TableName() string { return "attendance_sessions" }

// AttendanceRecord — attendance_records table. At most one row per
// (session, student); the unique index enforces that under concurrency.
type AttendanceRecord struct {
	ID           uint      `gorm:"primaryKey"                                       json:"id"`
	SessionID    uint      `gorm:"not null;uniqueIndex:uq_attendance_records_session_student" json:"session_id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:uq_attendance_records_session_student" json:"student_id"`
	Date         time.Time `gorm:"type:date;not null"                               json:"date"`
	Status       string    `gorm:"type:varchar(50);not null"                        json:"status"`
	CheckInTime  string    `gorm:"type:varchar(8);not null"                         json:"check_in_time"` // HH:MM:SS
	CheckOutTime *string   `gorm:"type:varchar(8)"                                  json:"check_out_time,omitempty"`
	Timestamps
}

// TableName sets the table name.
func (AttendanceRecord) TableName() string { return "attendance_records" }
