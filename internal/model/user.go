package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role defines the access level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Plan is the membership tier gating feature access
type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
	PlanVIP     Plan = "vip"
)

// IsValid reports whether p is a known membership tier
func (p Plan) IsValid() bool {
	return p == PlanBasic || p == PlanPremium || p == PlanVIP
}

// VerificationStatus models identity verification as a state machine:
// unverified -> pending (evidence submitted) -> verified (admin approved).
// A rejected review returns the state to unverified.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
)

// Verification couples a status with the evidence it was judged on,
// so "verified with no evidence on file" cannot be represented for
// evidence-based checks.
type Verification struct {
	Status      VerificationStatus `json:"status" gorm:"type:varchar(20);default:'unverified'"`
	EvidenceURL string             `json:"evidence_url,omitempty" gorm:"size:1000"`
}

// Privacy holds the user's four independent visibility switches.
// No gorm defaults here: a `default` tag makes gorm omit zero values
// from the INSERT, which would silently flip an opted-out switch back
// on. Defaults live in the register path instead.
type Privacy struct {
	ShowEmail       bool `json:"show_email"`
	ShowPhone       bool `json:"show_phone"`
	ShowPhoto       bool `json:"show_photo"`
	IsProfilePublic bool `json:"is_profile_public"`
}

// User represents a registered member of the directory
type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FullName   string    `json:"full_name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password   string    `json:"-" gorm:"size:255"`
	Phone      string    `json:"phone" gorm:"size:20"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender" gorm:"size:20"`
	Religion   string    `json:"religion" gorm:"size:40"`
	Bio        string    `json:"bio" gorm:"type:text"`
	Location   string    `json:"location" gorm:"size:100"`
	Occupation string    `json:"occupation" gorm:"size:100"`

	ProfilePhoto string `json:"profile_photo" gorm:"size:1000;default:''"`
	CoverPhoto   string `json:"cover_photo" gorm:"size:1000;default:''"`

	Role     Role   `json:"role" gorm:"type:varchar(20);default:'user'"`
	Plan     Plan   `json:"plan" gorm:"type:varchar(20);default:'basic'"`
	Language string `json:"language" gorm:"size:10;default:'bn'"`

	// FCM registration token of the user's current device, empty when
	// push is not set up
	DeviceToken string `json:"-" gorm:"size:255"`

	PhoneVerification Verification `json:"phone_verification" gorm:"embedded;embeddedPrefix:phone_verification_"`
	IDVerification    Verification `json:"id_verification" gorm:"embedded;embeddedPrefix:id_verification_"`
	VideoVerification Verification `json:"video_verification" gorm:"embedded;embeddedPrefix:video_verification_"`

	Privacy Privacy `json:"privacy" gorm:"embedded;embeddedPrefix:privacy_"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanCall reports whether the user's plan unlocks audio/video calling
func (u *User) CanCall() bool {
	return u.Plan == PlanVIP
}

// UserResponse is the safe version of User for API responses.
// The relationship sets are derived from the connection graph by the
// auth service; they are not stored on the user row.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Religion     string    `json:"religion"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Occupation   string    `json:"occupation"`
	ProfilePhoto string    `json:"profile_photo,omitempty"`
	CoverPhoto   string    `json:"cover_photo,omitempty"`
	Role         Role      `json:"role"`
	Plan         Plan      `json:"plan"`
	Language     string    `json:"language"`

	PhoneVerified bool `json:"phone_verified"`
	IDVerified    bool `json:"id_verified"`
	VideoVerified bool `json:"video_verified"`

	Privacy Privacy `json:"privacy"`

	ConnectionRequests []uuid.UUID `json:"connection_requests,omitempty"`
	SentRequests       []uuid.UUID `json:"sent_requests,omitempty"`
	Connections        []uuid.UUID `json:"connections,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts User to its full (owner-visible) response form
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		Phone:         u.Phone,
		Age:           u.Age,
		Gender:        u.Gender,
		Religion:      u.Religion,
		Bio:           u.Bio,
		Location:      u.Location,
		Occupation:    u.Occupation,
		ProfilePhoto:  u.ProfilePhoto,
		CoverPhoto:    u.CoverPhoto,
		Role:          u.Role,
		Plan:          u.Plan,
		Language:      u.Language,
		PhoneVerified: u.PhoneVerification.Status == VerificationVerified,
		IDVerified:    u.IDVerification.Status == VerificationVerified,
		VideoVerified: u.VideoVerification.Status == VerificationVerified,
		Privacy:       u.Privacy,
		CreatedAt:     u.CreatedAt,
	}
}

// ToPublicResponse applies the user's privacy switches for viewers
// other than the owner and admins
func (u *User) ToPublicResponse() UserResponse {
	resp := u.ToResponse()
	if !u.Privacy.ShowEmail {
		resp.Email = ""
	}
	if !u.Privacy.ShowPhone {
		resp.Phone = ""
	}
	if !u.Privacy.ShowPhoto {
		resp.ProfilePhoto = ""
		resp.CoverPhoto = ""
	}
	return resp
}
