package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/repository"
	"github.com/Masaru124/Attendance-app/pkg/identity"
)

// ── notification module errors ──

var ErrTokenNotFound = errors.New("device token not found")

// PushSender delivers one push message to one device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// NotificationService manages device tokens and best-effort push delivery.
// A push failure is never surfaced as an error to the operation that
// triggered it.
type NotificationService interface {
	SaveToken(ctx context.Context, claims *identity.Claims, req *dto.SaveFCMTokenRequest) (*dto.FCMTokenResponse, error)
	DeleteToken(ctx context.Context, claims *identity.Claims, token string) error
	ListTokens(ctx context.Context, claims *identity.Claims) ([]dto.FCMTokenResponse, error)

	// SendLeaveStatusNotification pushes the leave decision to every device
	// the student has registered. Reports true when at least one delivery
	// succeeded.
	SendLeaveStatusNotification(ctx context.Context, studentID uint, status string, leaveID uint, dateRange string) bool
}

type notificationService struct {
	repo   *repository.Repository
	users  UserService
	sender PushSender
	logger *zap.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(repo *repository.Repository, users UserService, sender PushSender, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		users:  users,
		sender: sender,
		logger: logger,
	}
}

func (s *notificationService) SaveToken(ctx context.Context, claims *identity.Claims, req *dto.SaveFCMTokenRequest) (*dto.FCMTokenResponse, error) {
	user, err := s.users.GetOrCreateByClaims(ctx, claims, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = "android"
	}

	existing, err := s.repo.FCMToken.GetByUserAndToken(ctx, user.ID, req.Token)
	if err == nil {
		existing.DeviceType = deviceType
		if err := s.repo.FCMToken.Update(ctx, existing); err != nil {
			s.logger.Error("update fcm token failed", zap.Uint("user_id", user.ID), zap.Error(err))
			return nil, err
		}
		return toTokenResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup fcm token failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	token := &model.FCMToken{
		UserID:     user.ID,
		Token:      req.Token,
		DeviceType: deviceType,
	}
	if err := s.repo.FCMToken.Create(ctx, token); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// concurrent save of the same token; treat as the upsert winning
			return s.SaveToken(ctx, claims, req)
		}
		s.logger.Error("create fcm token failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return toTokenResponse(token), nil
}

func (s *notificationService) DeleteToken(ctx context.Context, claims *identity.Claims, token string) error {
	user, err := s.users.GetByClaims(ctx, claims)
	if err != nil {
		return err
	}

	ok, err := s.repo.FCMToken.DeleteByUserAndToken(ctx, user.ID, token)
	if err != nil {
		s.logger.Error("delete fcm token failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrTokenNotFound
	}
	return nil
}

func (s *notificationService) ListTokens(ctx context.Context, claims *identity.Claims) ([]dto.FCMTokenResponse, error) {
	user, err := s.users.GetByClaims(ctx, claims)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []dto.FCMTokenResponse{}, nil
		}
		return nil, err
	}

	tokens, err := s.repo.FCMToken.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("list fcm tokens failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.FCMTokenResponse, 0, len(tokens))
	for i := range tokens {
		result = append(result, *toTokenResponse(&tokens[i]))
	}
	return result, nil
}

func (s *notificationService) SendLeaveStatusNotification(ctx context.Context, studentID uint, status string, leaveID uint, dateRange string) bool {
	tokens, err := s.repo.FCMToken.ListByUser(ctx, studentID)
	if err != nil {
		s.logger.Error("list tokens for push failed", zap.Uint("student_id", studentID), zap.Error(err))
		return false
	}
	if len(tokens) == 0 {
		s.logger.Info("no device tokens registered, skipping push", zap.Uint("student_id", studentID))
		return false
	}

	var title string
	switch status {
	case model.LeaveApproved:
		title = "Leave Approved ✅"
	case model.LeaveRejected:
		title = "Leave Rejected ❌"
	default:
		title = "Leave Update"
	}
	body := fmt.Sprintf("Your leave request for %s has been %s.", dateRange, strings.ToLower(status))
	data := map[string]string{
		"type":     "LEAVE_STATUS",
		"leave_id": fmt.Sprintf("%d", leaveID),
		"status":   status,
	}

	sent := 0
	for i := range tokens {
		// give each token its own deadline so one slow delivery does not
		// starve the rest
		sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := s.sender.Send(sendCtx, tokens[i].Token, title, body, data)
		cancel()
		if err != nil {
			s.logger.Warn("push delivery failed",
				zap.Uint("student_id", studentID),
				zap.Uint("token_id", tokens[i].ID),
				zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("leave status push finished",
		zap.Uint("leave_id", leaveID),
		zap.Int("delivered", sent),
		zap.Int("total", len(tokens)))
	return sent > 0
}

func toTokenResponse(token *model.FCMToken) *dto.FCMTokenResponse {
	return &dto.FCMTokenResponse{
		ID:         token.ID,
		Token:      token.Token,
		DeviceType: token.DeviceType,
		CreatedAt:  token.CreatedAt,
	}
}
