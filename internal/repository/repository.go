package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface.
type Repository struct {
	User       UserRepository
	Attendance AttendanceRepository
	Leave      LeaveRepository
	FCMToken   FCMTokenRepository
}

// NewRepository builds the aggregate over one gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Attendance: NewAttendanceRepo(db),
		Leave:      NewLeaveRepo(db),
		FCMToken:   NewFCMTokenRepo(db),
	}
}
