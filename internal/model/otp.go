package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OTPPurpose defines what the OTP code is used for
type OTPPurpose string

const (
	OTPPurposePhoneVerification OTPPurpose = "phone_verification"
	OTPPurposePasswordReset     OTPPurpose = "password_reset"
)

// OTPCode represents a one-time password for phone verification or
// password reset
type OTPCode struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Code      string     `json:"-" gorm:"size:6;not null"` // 6-digit numeric code
	Purpose   OTPPurpose `json:"purpose" gorm:"type:varchar(30);default:'phone_verification'"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at"` // NULL = not yet used
	CreatedAt time.Time  `json:"created_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (o *OTPCode) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsExpired checks if the OTP code has expired
func (o *OTPCode) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// IsUsed checks if the OTP code has already been used
func (o *OTPCode) IsUsed() bool {
	return o.UsedAt != nil
}

// IsValid checks if the OTP code can still be used
func (o *OTPCode) IsValid() bool {
	return !o.IsExpired() && !o.IsUsed()
}
