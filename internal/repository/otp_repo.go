package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"gorm.io/gorm"
)

// OTPRepository handles database operations for one-time passwords
type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create inserts a new OTP code
func (r *OTPRepository) Create(otp *model.OTPCode) error {
	return r.db.Create(otp).Error
}

// FindLatest returns the newest unused code for (user, purpose)
func (r *OTPRepository) FindLatest(userID uuid.UUID, purpose model.OTPPurpose) (*model.OTPCode, error) {
	var otp model.OTPCode
	err := r.db.
		Where("user_id = ? AND purpose = ? AND used_at IS NULL", userID, purpose).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// MarkUsed stamps the code as consumed so it can never be replayed
func (r *OTPRepository) MarkUsed(otpID uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&model.OTPCode{}).
		Where("id = ?", otpID).
		Update("used_at", &now).Error
}

// InvalidatePrevious voids any outstanding codes before issuing a new one
func (r *OTPRepository) InvalidatePrevious(userID uuid.UUID, purpose model.OTPPurpose) error {
	now := time.Now()
	return r.db.Model(&model.OTPCode{}).
		Where("user_id = ? AND purpose = ? AND used_at IS NULL", userID, purpose).
		Update("used_at", &now).Error
}

// DeleteExpired clears out stale codes; called opportunistically
func (r *OTPRepository) DeleteExpired() error {
	return r.db.
		Where("expires_at < ?", time.Now()).
		Delete(&model.OTPCode{}).Error
}
