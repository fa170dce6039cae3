package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatus tracks the moderation lifecycle of a user report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusResolved ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report is a complaint filed by one user against another. The reported
// user may be deleted while the report still exists; lookups must treat a
// missing user as a soft failure.
type Report struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ReporterID uuid.UUID    `json:"reporter_id" gorm:"type:uuid;index;not null"`
	ReportedID uuid.UUID    `json:"reported_id" gorm:"type:uuid;index;not null"`
	Reason     string       `json:"reason" gorm:"size:255;not null"`
	Status     ReportStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Relations
	Reporter User `json:"-" gorm:"foreignKey:ReporterID"`
	Reported User `json:"-" gorm:"foreignKey:ReportedID"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
