package repository

import (
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"gorm.io/gorm"
)

// ReportRepository handles database operations for user reports
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report
func (r *ReportRepository) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

// FindByID finds a report by ID
func (r *ReportRepository) FindByID(id uuid.UUID) (*model.Report, error) {
	var report model.Report
	err := r.db.Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListAll returns all reports, pending first then newest
func (r *ReportRepository) ListAll() ([]model.Report, error) {
	var reports []model.Report
	err := r.db.
		Order("CASE WHEN status = 'pending' THEN 0 ELSE 1 END, created_at DESC").
		Find(&reports).Error
	return reports, err
}

// UpdateStatus moves a report through its lifecycle
func (r *ReportRepository) UpdateStatus(reportID uuid.UUID, status model.ReportStatus) error {
	return r.db.Model(&model.Report{}).
		Where("id = ?", reportID).
		Update("status", status).Error
}

// CountPending counts reports awaiting moderation
func (r *ReportRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.Report{}).
		Where("status = ?", model.ReportStatusPending).
		Count(&count).Error
	return count, err
}
