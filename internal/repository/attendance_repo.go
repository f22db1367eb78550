package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/model"
)

// AttendanceRepository is the session/record data-access interface.
type AttendanceRepository interface {
	CreateSession(ctx context.Context, session *model.AttendanceSession) error
	GetSessionByID(ctx context.Context, id uint) (*model.AttendanceSession, error)
	ListSessions(ctx context.Context) ([]model.AttendanceSession, error)
	UpdateSession(ctx context.Context, session *model.AttendanceSession) error
	CountRecordsBySession(ctx context.Context, sessionID uint) (int64, error)

	// CreateRecord relies on the (session_id, student_id) unique index;
	// a duplicate mark surfaces as gorm.ErrDuplicatedKey.
	CreateRecord(ctx context.Context, record *model.AttendanceRecord) error
	GetRecord(ctx context.Context, sessionID, studentID uint) (*model.AttendanceRecord, error)
	ListRecordsBySession(ctx context.Context, sessionID uint) ([]model.AttendanceRecord, error)
	ListRecordsByStudent(ctx context.Context, studentID uint) ([]model.AttendanceRecord, error)
}

// attendanceRepo is the GORM implementation of AttendanceRepository.
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) CreateSession(ctx context.Context, session *model.AttendanceSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *attendanceRepo) GetSessionByID(ctx context.Context, id uint) (*model.AttendanceSession, error) {
	var session model.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *attendanceRepo) ListSessions(ctx context.Context) ([]model.AttendanceSession, error) {
	var sessions []model.AttendanceSession
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *attendanceRepo) UpdateSession(ctx context.Context, session *model.AttendanceSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *attendanceRepo) CountRecordsBySession(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *attendanceRepo) CreateRecord(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) GetRecord(ctx context.Context, sessionID, studentID uint) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND student_id = ?", sessionID, studentID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) ListRecordsBySession(ctx context.Context, sessionID uint) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListRecordsByStudent(ctx context.Context, studentID uint) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}
