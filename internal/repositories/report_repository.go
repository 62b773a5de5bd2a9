package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratty2304/MedConnect/internal/models"
)

type ReportRepository interface {
	GetByID(id uuid.UUID) (*models.Report, error)
	Create(report *models.Report) error
	Delete(id uuid.UUID) error
	ListForUser(userID uuid.UUID) ([]models.Report, error)
	Share(reportID, userID uuid.UUID) error
	IsSharedWith(reportID, userID uuid.UUID) (bool, error)
}

type gormReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{db: db}
}

func (r *gormReportRepository) GetByID(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *gormReportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *gormReportRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Report{}, "id = ?", id).Error
}

// ListForUser returns reports the user owns plus reports shared with them.
func (r *gormReportRepository) ListForUser(userID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.
		Joins("LEFT JOIN report_shares ON report_shares.report_id = reports.id").
		Where("reports.owner_id = ? OR report_shares.user_id = ?", userID, userID).
		Group("reports.id").
		Order("reports.created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *gormReportRepository) Share(reportID, userID uuid.UUID) error {
	share := &models.ReportShare{ReportID: reportID, UserID: userID}
	return r.db.
		Where("report_id = ? AND user_id = ?", reportID, userID).
		FirstOrCreate(share).Error
}

func (r *gormReportRepository) IsSharedWith(reportID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.ReportShare{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
