package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/repository"
	"github.com/Masaru124/Attendance-app/pkg/identity"
)

// ── attendance module errors ──

var (
	ErrSessionNotFound = errors.New("attendance session not found")
	ErrSessionClosed   = errors.New("attendance session has been closed")
	ErrAlreadyMarked   = errors.New("attendance already marked for this session")
)

// Check-ins from 09:01:00 onward count as LATE. The minute check
// deliberately excludes 09:00:xx; that window is still PRESENT.
const lateThresholdHour = 9

const qrImageSize = 256

// AttendanceService owns the session lifecycle and record marking.
type AttendanceService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest, creatorUID string) (*dto.CreateSessionResponse, error)
	ListSessions(ctx context.Context) ([]dto.SessionResponse, error)
	GetSession(ctx context.Context, id uint) (*dto.SessionResponse, error)
	SessionQR(ctx context.Context, id uint) (*dto.SessionQRResponse, error)
	CloseSession(ctx context.Context, id uint) error
	Mark(ctx context.Context, sessionID uint, claims *identity.Claims) (*dto.MarkAttendanceResponse, error)
	MyRecords(ctx context.Context, claims *identity.Claims) ([]dto.MyAttendanceRecord, error)
	SessionSummary(ctx context.Context, id uint) (*dto.SessionAttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	users  UserService
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(repo *repository.Repository, users UserService, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:   repo,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// classifyCheckIn applies the late rule to a check-in instant.
func classifyCheckIn(t time.Time) string {
	if t.Hour() >= lateThresholdHour && t.Minute() > 0 {
		return model.StatusLate
	}
	return model.StatusPresent
}

// qrPayload builds the JSON scanned by student devices.
func qrPayload(session *model.AttendanceSession) string {
	location := ""
	if session.Location != nil {
		location = *session.Location
	}
	return fmt.Sprintf(`{"session_id": %d, "session_name": %q, "location": %q}`,
		session.ID, session.SessionName, location)
}

func (s *attendanceService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest, creatorUID string) (*dto.CreateSessionResponse, error) {
	session := &model.AttendanceSession{
		SessionName: req.SessionName,
		CreatedBy:   creatorUID,
	}
	if req.Location != "" {
		session.Location = &req.Location
	}

	if err := s.repo.Attendance.CreateSession(ctx, session); err != nil {
		s.logger.Error("create session failed", zap.Error(err))
		return nil, err
	}

	return &dto.CreateSessionResponse{
		SessionID:   session.ID,
		SessionName: session.SessionName,
		QRData:      qrPayload(session),
		CreatedAt:   session.CreatedAt,
	}, nil
}

func (s *attendanceService) ListSessions(ctx context.Context) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.Attendance.ListSessions(ctx)
	if err != nil {
		s.logger.Error("list sessions failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		total, err := s.repo.Attendance.CountRecordsBySession(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		result = append(result, toSessionResponse(&sessions[i], total))
	}
	return result, nil
}

func (s *attendanceService) GetSession(ctx context.Context, id uint) (*dto.SessionResponse, error) {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Attendance.CountRecordsBySession(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toSessionResponse(session, total)
	resp.CreatedBy = session.CreatedBy
	return &resp, nil
}

func (s *attendanceService) SessionQR(ctx context.Context, id uint) (*dto.SessionQRResponse, error) {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := qrPayload(session)

	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		s.logger.Error("encode qr failed", zap.Uint("session_id", id), zap.Error(err))
		return nil, err
	}

	return &dto.SessionQRResponse{
		SessionID:     session.ID,
		SessionName:   session.SessionName,
		QRImageBase64: base64.StdEncoding.EncodeToString(png),
		QRData:        payload,
	}, nil
}

func (s *attendanceService) CloseSession(ctx context.Context, id uint) error {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}

	// closing twice is harmless
	session.IsClosed = true
	if err := s.repo.Attendance.UpdateSession(ctx, session); err != nil {
		s.logger.Error("close session failed", zap.Uint("session_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *attendanceService) Mark(ctx context.Context, sessionID uint, claims *identity.Claims) (*dto.MarkAttendanceResponse, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	student, err := s.users.GetOrCreateByClaims(ctx, claims, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Attendance.GetRecord(ctx, sessionID, student.ID); err == nil {
		return nil, ErrAlreadyMarked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if session.IsClosed {
		return nil, ErrSessionClosed
	}

	now := s.now()
	status := classifyCheckIn(now)

	record := &model.AttendanceRecord{
		SessionID:   sessionID,
		StudentID:   student.ID,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Status:      status,
		CheckInTime: now.Format("15:04:05"),
	}

	if err := s.repo.Attendance.CreateRecord(ctx, record); err != nil {
		// the unique index is the real duplicate guard; a concurrent mark
		// lands here
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMarked
		}
		s.logger.Error("create record failed",
			zap.Uint("session_id", sessionID), zap.Uint("student_id", student.ID), zap.Error(err))
		return nil, err
	}

	return &dto.MarkAttendanceResponse{
		Success:      true,
		Message:      fmt.Sprintf("Attendance marked as %s", status),
		AttendanceID: record.ID,
		Status:       status,
		CheckInTime:  record.CheckInTime,
	}, nil
}

func (s *attendanceService) MyRecords(ctx context.Context, claims *identity.Claims) ([]dto.MyAttendanceRecord, error) {
	student, err := s.users.GetByClaims(ctx, claims)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []dto.MyAttendanceRecord{}, nil
		}
		return nil, err
	}

	records, err := s.repo.Attendance.ListRecordsByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("list records failed", zap.Uint("student_id", student.ID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.MyAttendanceRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		row := dto.MyAttendanceRecord{
			ID:           rec.ID,
			SessionID:    rec.SessionID,
			SessionName:  "Unknown Session",
			Date:         rec.Date.Format("2006-01-02"),
			Status:       rec.Status,
			CheckInTime:  rec.CheckInTime,
			CheckOutTime: rec.CheckOutTime,
		}
		if session, err := s.repo.Attendance.GetSessionByID(ctx, rec.SessionID); err == nil {
			row.SessionName = session.SessionName
			row.Location = session.Location
		}
		result = append(result, row)
	}
	return result, nil
}

func (s *attendanceService) SessionSummary(ctx context.Context, id uint) (*dto.SessionAttendanceResponse, error) {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance.ListRecordsBySession(ctx, id)
	if err != nil {
		s.logger.Error("list session records failed", zap.Uint("session_id", id), zap.Error(err))
		return nil, err
	}

	resp := &dto.SessionAttendanceResponse{
		Session: toSessionResponse(session, int64(len(records))),
		Records: make([]dto.SessionRecordEntry, 0, len(records)),
	}

	for i := range records {
		rec := &records[i]
		entry := dto.SessionRecordEntry{
			ID:           rec.ID,
			StudentID:    rec.StudentID,
			StudentName:  "Unknown",
			Status:       rec.Status,
			CheckInTime:  rec.CheckInTime,
			CheckOutTime: rec.CheckOutTime,
		}
		if student, err := s.repo.User.GetByID(ctx, rec.StudentID); err == nil {
			entry.StudentName = student.Name
			entry.StudentEmail = student.Email
		}
		resp.Records = append(resp.Records, entry)

		switch rec.Status {
		case model.StatusPresent:
			resp.TotalPresent++
		case model.StatusAbsent:
			resp.TotalAbsent++
		case model.StatusLate:
			resp.TotalLate++
		}
	}

	return resp, nil
}

func (s *attendanceService) getSession(ctx context.Context, id uint) (*model.AttendanceSession, error) {
	session, err := s.repo.Attendance.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("get session failed", zap.Uint("session_id", id), zap.Error(err))
		return nil, err
	}
	return session, nil
}

func toSessionResponse(session *model.AttendanceSession, totalRecords int64) dto.SessionResponse {
	return dto.SessionResponse{
		ID:           session.ID,
		SessionName:  session.SessionName,
		Location:     session.Location,
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
		IsClosed:     session.IsClosed,
		TotalRecords: totalRecords,
	}
}
