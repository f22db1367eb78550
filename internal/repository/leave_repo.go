package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/model"
)

// LeaveRepository is the leave-request data-access interface.
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.LeaveRequest) error
	GetByID(ctx context.Context, id uint) (*model.LeaveRequest, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.LeaveRequest, error)
	ListByStatus(ctx context.Context, status string) ([]model.LeaveRequest, error)
	List(ctx context.Context, statusFilter string) ([]model.LeaveRequest, error)

	// ReviewIfPending moves a request out of PENDING as a single
	// conditional update. Returns false when the request was no longer
	// pending, so two concurrent reviews cannot both win.
	ReviewIfPending(ctx context.Context, id uint, status string, reviewerID uint, reviewedAt time.Time) (bool, error)

	// DeleteIfPendingOwned removes a pending request owned by studentID as
	// a single conditional delete. Returns false when no row matched.
	DeleteIfPendingOwned(ctx context.Context, id, studentID uint) (bool, error)
}

// leaveRepo is the GORM implementation of LeaveRepository.
type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo creates a LeaveRepository.
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) Create(ctx context.Context, leave *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *leaveRepo) GetByID(ctx context.Context, id uint) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&leave).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepo) ListByStudent(ctx context.Context, studentID uint) ([]model.LeaveRequest, error) {
	var leaves []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) ListByStatus(ctx context.Context, status string) ([]model.LeaveRequest, error) {
	var leaves []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) List(ctx context.Context, statusFilter string) ([]model.LeaveRequest, error) {
	q := r.db.WithContext(ctx).Model(&model.LeaveRequest{})
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}

	var leaves []model.LeaveRequest
	err := q.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) ReviewIfPending(ctx context.Context, id uint, status string, reviewerID uint, reviewedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("id = ? AND status = ?", id, model.LeavePending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": reviewedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *leaveRepo) DeleteIfPendingOwned(ctx context.Context, id, studentID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ? AND status = ?", id, studentID, model.LeavePending).
		Delete(&model.LeaveRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
