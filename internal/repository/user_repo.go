package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by UUID
func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAll returns all users, newest first
func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// ListCandidates returns users other than excludeUserID, for the directory
// and match suggestions
func (r *UserRepository) ListCandidates(excludeUserID uuid.UUID, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("id != ? AND role = ?", excludeUserID, model.RoleUser).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// SearchUsers searches users by name or email (partial match, case-insensitive)
func (r *UserRepository) SearchUsers(query string, excludeUserID uuid.UUID, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + query + "%"
	err := r.db.
		Where("(LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)) AND id != ?", pattern, pattern, excludeUserID).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Update persists changes to an already-loaded user
func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// UpdatePassword updates a user's password
func (r *UserRepository) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// UpdateDeviceToken stores the FCM token of the user's current device
func (r *UserRepository) UpdateDeviceToken(userID uuid.UUID, token string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("device_token", token).Error
}

// UpdatePlan sets a user's subscription plan
func (r *UserRepository) UpdatePlan(userID uuid.UUID, plan model.Plan) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("plan", plan).Error
}

// UpdateVerification sets one verification slot (phone, id or video)
func (r *UserRepository) UpdateVerification(userID uuid.UUID, prefix string, v model.Verification) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			prefix + "_status":       v.Status,
			prefix + "_evidence_url": v.EvidenceURL,
			"updated_at":             time.Now(),
		}).Error
}

// CountPendingVerifications counts users with at least one verification
// awaiting review
func (r *UserRepository) CountPendingVerifications() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("id_verification_status = ? OR video_verification_status = ?",
			model.VerificationPending, model.VerificationPending).
		Count(&count).Error
	return count, err
}

// ListPendingVerifications returns users with a verification awaiting review
func (r *UserRepository) ListPendingVerifications() ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("id_verification_status = ? OR video_verification_status = ?",
			model.VerificationPending, model.VerificationPending).
		Order("updated_at ASC").
		Find(&users).Error
	return users, err
}

// CountByPlan counts users on the given plans
func (r *UserRepository) CountByPlan(plans ...model.Plan) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("plan IN ?", plans).
		Count(&count).Error
	return count, err
}

// Count returns the total number of (non-deleted) users
func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

// Delete removes a user row for good. The row must not linger and
// hold the unique email, or the address could never register again.
func (r *UserRepository) Delete(userID uuid.UUID) error {
	return r.db.Unscoped().Where("id = ?", userID).Delete(&model.User{}).Error
}
