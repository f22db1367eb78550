package handler

import "github.com/Masaru124/Attendance-app/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	User         *UserHandler
	Attendance   *AttendanceHandler
	Leave        *LeaveHandler
	Notification *NotificationHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		User:         NewUserHandler(svc.User),
		Attendance:   NewAttendanceHandler(svc.Attendance, svc.Export),
		Leave:        NewLeaveHandler(svc.Leave),
		Notification: NewNotificationHandler(svc.Notification),
	}
}
