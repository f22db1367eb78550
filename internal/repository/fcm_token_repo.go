package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/model"
)

// FCMTokenRepository is the device-token data-access interface.
type FCMTokenRepository interface {
	Create(ctx context.Context, token *model.FCMToken) error
	GetByUserAndToken(ctx context.Context, userID uint, token string) (*model.FCMToken, error)
	Update(ctx context.Context, token *model.FCMToken) error
	DeleteByUserAndToken(ctx context.Context, userID uint, token string) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]model.FCMToken, error)
}

// fcmTokenRepo is the GORM implementation of FCMTokenRepository.
type fcmTokenRepo struct {
	db *gorm.DB
}

// NewFCMTokenRepo creates an FCMTokenRepository.
func NewFCMTokenRepo(db *gorm.DB) FCMTokenRepository {
	return &fcmTokenRepo{db: db}
}

func (r *fcmTokenRepo) Create(ctx context.Context, token *model.FCMToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *fcmTokenRepo) GetByUserAndToken(ctx context.Context, userID uint, token string) (*model.FCMToken, error) {
	var t model.FCMToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *fcmTokenRepo) Update(ctx context.Context, token *model.FCMToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

func (r *fcmTokenRepo) DeleteByUserAndToken(ctx context.Context, userID uint, token string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&model.FCMToken{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *fcmTokenRepo) ListByUser(ctx context.Context, userID uint) ([]model.FCMToken, error) {
	var tokens []model.FCMToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&tokens).Error
	return tokens, err
}
