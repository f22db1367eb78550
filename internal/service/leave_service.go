package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/repository"
	"github.com/Masaru124/Attendance-app/pkg/identity"
)

// ── leave module errors ──

const maxBatchSize = 50

var (
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrInvalidDateRange = errors.New("end date must be on or after start date")
	ErrOnlyStudents     = errors.New("only students can apply for leave")
	ErrAlreadyReviewed  = errors.New("leave request has already been reviewed")
	ErrNotPending       = errors.New("only pending leave requests can be cancelled")
	ErrEmptyBatch       = errors.New("leave id list is empty")
	ErrBatchTooLarge    = fmt.Errorf("batch size exceeds limit of %d", maxBatchSize)
	ErrInvalidAction    = errors.New("action must be APPROVE or REJECT")
)

const dateLayout = "2006-01-02"

// LeaveService owns the leave-request workflow.
type LeaveService interface {
	Apply(ctx context.Context, claims *identity.Claims, req *dto.ApplyLeaveRequest) (*dto.LeaveResponse, error)
	MyLeaves(ctx context.Context, claims *identity.Claims) ([]dto.LeaveResponse, error)
	PendingLeaves(ctx context.Context) ([]dto.LeaveResponse, error)
	AllLeaves(ctx context.Context, statusFilter string) ([]dto.LeaveResponse, error)
	GetDetail(ctx context.Context, id uint) (*dto.LeaveResponse, error)
	Review(ctx context.Context, id uint, claims *identity.Claims, action string) (*dto.LeaveActionResponse, error)
	BatchReview(ctx context.Context, claims *identity.Claims, req *dto.BatchActionRequest) (*dto.BatchActionResponse, error)
	Cancel(ctx context.Context, id uint, claims *identity.Claims) error

	// ApprovedCalendar renders the caller's approved leave spans as an
	// iCalendar document.
	ApprovedCalendar(ctx context.Context, claims *identity.Claims) (string, error)
}

type leaveService struct {
	repo          *repository.Repository
	users         UserService
	notifications NotificationService
	logger        *zap.Logger
	now           func() time.Time
}

// NewLeaveService creates a LeaveService.
func NewLeaveService(repo *repository.Repository, users UserService, notifications NotificationService, logger *zap.Logger) LeaveService {
	return &leaveService{
		repo:          repo,
		users:         users,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

// actionStatus normalizes an action verb to the stored status. This is the
// single place the APPROVE/APPROVED spelling split is resolved.
func actionStatus(action string) (string, error) {
	switch action {
	case "APPROVE", model.LeaveApproved:
		return model.LeaveApproved, nil
	case "REJECT", model.LeaveRejected:
		return model.LeaveRejected, nil
	}
	return "", ErrInvalidAction
}

func (s *leaveService) Apply(ctx context.Context, claims *identity.Claims, req *dto.ApplyLeaveRequest) (*dto.LeaveResponse, error) {
	// only students (or callers with no role yet) may apply
	if claims.Role != "" && claims.Role != model.RoleStudent {
		return nil, ErrOnlyStudents
	}

	fromDate, err := time.Parse(dateLayout, req.FromDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	toDate, err := time.Parse(dateLayout, req.ToDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if toDate.Before(fromDate) {
		return nil, ErrInvalidDateRange
	}

	student, err := s.users.GetOrCreateByClaims(ctx, claims, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	leave := &model.LeaveRequest{
		StudentID: student.ID,
		FromDate:  fromDate,
		ToDate:    toDate,
		Reason:    req.Reason,
		Status:    model.LeavePending,
	}

	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("create leave failed", zap.Uint("student_id", student.ID), zap.Error(err))
		return nil, err
	}

	resp := s.toLeaveResponse(ctx, leave)
	return &resp, nil
}

func (s *leaveService) MyLeaves(ctx context.Context, claims *identity.Claims) ([]dto.LeaveResponse, error) {
	student, err := s.users.GetByClaims(ctx, claims)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []dto.LeaveResponse{}, nil
		}
		return nil, err
	}

	leaves, err := s.repo.Leave.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("list my leaves failed", zap.Uint("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	return s.toLeaveResponses(ctx, leaves), nil
}

func (s *leaveService) PendingLeaves(ctx context.Context) ([]dto.LeaveResponse, error) {
	leaves, err := s.repo.Leave.ListByStatus(ctx, model.LeavePending)
	if err != nil {
		s.logger.Error("list pending leaves failed", zap.Error(err))
		return nil, err
	}
	return s.toLeaveResponses(ctx, leaves), nil
}

func (s *leaveService) AllLeaves(ctx context.Context, statusFilter string) ([]dto.LeaveResponse, error) {
	leaves, err := s.repo.Leave.List(ctx, strings.ToUpper(statusFilter))
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, err
	}
	return s.toLeaveResponses(ctx, leaves), nil
}

func (s *leaveService) GetDetail(ctx context.Context, id uint) (*dto.LeaveResponse, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toLeaveResponse(ctx, leave)
	return &resp, nil
}

func (s *leaveService) Review(ctx context.Context, id uint, claims *identity.Claims, action string) (*dto.LeaveActionResponse, error) {
	status, err := actionStatus(action)
	if err != nil {
		return nil, err
	}

	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.LeavePending {
		return nil, ErrAlreadyReviewed
	}

	reviewer, err := s.users.GetOrCreateByClaims(ctx, claims, model.RoleTeacher)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.Leave.ReviewIfPending(ctx, id, status, reviewer.ID, s.now())
	if err != nil {
		s.logger.Error("review leave failed", zap.Uint("leave_id", id), zap.Error(err))
		return nil, err
	}
	if !ok {
		// a concurrent review won
		return nil, ErrAlreadyReviewed
	}

	dateRange := fmt.Sprintf("%s to %s",
		leave.FromDate.Format(dateLayout), leave.ToDate.Format(dateLayout))
	sent := s.notifications.SendLeaveStatusNotification(ctx, leave.StudentID, status, leave.ID, dateRange)

	updated, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := s.toLeaveResponse(ctx, updated)
	return &dto.LeaveActionResponse{
		Success:          true,
		Message:          fmt.Sprintf("Leave request %s successfully", strings.ToLower(status)),
		NotificationSent: sent,
		LeaveRequest:     &resp,
	}, nil
}

func (s *leaveService) BatchReview(ctx context.Context, claims *identity.Claims, req *dto.BatchActionRequest) (*dto.BatchActionResponse, error) {
	status, err := actionStatus(req.Action)
	if err != nil {
		return nil, err
	}
	if len(req.LeaveIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(req.LeaveIDs) > maxBatchSize {
		return nil, ErrBatchTooLarge
	}

	reviewer, err := s.users.GetOrCreateByClaims(ctx, claims, model.RoleTeacher)
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchActionResponse{
		Status:     status,
		TotalCount: len(req.LeaveIDs),
		Processed:  make([]dto.ProcessedLeave, 0, len(req.LeaveIDs)),
		Failed:     make([]dto.FailedLeave, 0),
	}

	for _, id := range req.LeaveIDs {
		leave, err := s.repo.Leave.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp.Failed = append(resp.Failed, dto.FailedLeave{ID: id, Error: "leave request not found"})
			} else {
				s.logger.Error("batch lookup failed", zap.Uint("leave_id", id), zap.Error(err))
				resp.Failed = append(resp.Failed, dto.FailedLeave{ID: id, Error: "lookup failed"})
			}
			continue
		}

		// not pending: filtered, not an error
		if leave.Status != model.LeavePending {
			continue
		}

		ok, err := s.repo.Leave.ReviewIfPending(ctx, id, status, reviewer.ID, s.now())
		if err != nil {
			s.logger.Error("batch review failed", zap.Uint("leave_id", id), zap.Error(err))
			resp.Failed = append(resp.Failed, dto.FailedLeave{ID: id, Error: "update failed"})
			continue
		}
		if !ok {
			// raced out of PENDING between lookup and update
			continue
		}

		dateRange := fmt.Sprintf("%s to %s",
			leave.FromDate.Format(dateLayout), leave.ToDate.Format(dateLayout))
		sent := s.notifications.SendLeaveStatusNotification(ctx, leave.StudentID, status, leave.ID, dateRange)

		resp.Processed = append(resp.Processed, dto.ProcessedLeave{ID: id, NotificationSent: sent})
	}

	resp.Success = true
	resp.SuccessCount = len(resp.Processed)
	resp.Message = fmt.Sprintf("%d of %d leave requests %s",
		resp.SuccessCount, resp.TotalCount, strings.ToLower(status))
	return resp, nil
}

func (s *leaveService) Cancel(ctx context.Context, id uint, claims *identity.Claims) error {
	student, err := s.users.GetByClaims(ctx, claims)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// no user row means no owned leaves; do not leak existence
			return ErrLeaveNotFound
		}
		return err
	}

	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return err
	}
	if leave.StudentID != student.ID {
		return ErrLeaveNotFound
	}
	if leave.Status != model.LeavePending {
		return ErrNotPending
	}

	ok, err := s.repo.Leave.DeleteIfPendingOwned(ctx, id, student.ID)
	if err != nil {
		s.logger.Error("cancel leave failed", zap.Uint("leave_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotPending
	}
	return nil
}

func (s *leaveService) ApprovedCalendar(ctx context.Context, claims *identity.Claims) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Attendance App//Leave Calendar//EN")

	student, err := s.users.GetByClaims(ctx, claims)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return cal.Serialize(), nil
		}
		return "", err
	}

	leaves, err := s.repo.Leave.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("list leaves for calendar failed", zap.Uint("student_id", student.ID), zap.Error(err))
		return "", err
	}

	for i := range leaves {
		leave := &leaves[i]
		if leave.Status != model.LeaveApproved {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("leave-%d@attendance-app", leave.ID))
		event.SetCreatedTime(leave.CreatedAt)
		event.SetDtStampTime(leave.CreatedAt)
		event.SetSummary("Approved leave")
		event.SetDescription(leave.Reason)
		event.SetAllDayStartAt(leave.FromDate)
		// DTEND is exclusive for all-day events
		event.SetAllDayEndAt(leave.ToDate.AddDate(0, 0, 1))
	}

	return cal.Serialize(), nil
}

// ── helpers ──

func (s *leaveService) getLeave(ctx context.Context, id uint) (*model.LeaveRequest, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("get leave failed", zap.Uint("leave_id", id), zap.Error(err))
		return nil, err
	}
	return leave, nil
}

func (s *leaveService) toLeaveResponse(ctx context.Context, leave *model.LeaveRequest) dto.LeaveResponse {
	resp := dto.LeaveResponse{
		ID:         leave.ID,
		StudentID:  leave.StudentID,
		FromDate:   leave.FromDate.Format(dateLayout),
		ToDate:     leave.ToDate.Format(dateLayout),
		Reason:     leave.Reason,
		Status:     leave.Status,
		ReviewedBy: leave.ReviewedBy,
		ReviewedAt: leave.ReviewedAt,
		CreatedAt:  leave.CreatedAt,
	}

	if student, err := s.repo.User.GetByID(ctx, leave.StudentID); err == nil {
		resp.StudentName = student.Name
		resp.StudentEmail = student.Email
	} else {
		resp.StudentName = "Unknown"
	}

	if leave.ReviewedBy != nil {
		if reviewer, err := s.repo.User.GetByID(ctx, *leave.ReviewedBy); err == nil {
			resp.ReviewerName = &reviewer.Name
		}
	}

	return resp
}

func (s *leaveService) toLeaveResponses(ctx context.Context, leaves []model.LeaveRequest) []dto.LeaveResponse {
	result := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		result = append(result, s.toLeaveResponse(ctx, &leaves[i]))
	}
	return result
}
