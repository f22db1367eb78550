package service

import (
	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/internal/repository"
)

// Service aggregates every business service for injection into handlers.
type Service struct {
	Access       AccessService
	User         UserService
	Attendance   AttendanceService
	Leave        LeaveService
	Notification NotificationService
	Export       ExportService
}

// NewService wires the service layer on top of the repository aggregate.
func NewService(repo *repository.Repository, sender PushSender, logger *zap.Logger) *Service {
	users := NewUserService(repo, logger)
	notifications := NewNotificationService(repo, users, sender, logger)

	return &Service{
		Access:       NewAccessService(repo, logger),
		User:         users,
		Attendance:   NewAttendanceService(repo, users, logger),
		Leave:        NewLeaveService(repo, users, notifications, logger),
		Notification: notifications,
		Export:       NewExportService(repo, logger),
	}
}
