package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"gorm.io/gorm"
)

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create creates a new report in the database
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return translateGormError(r.db.WithContext(ctx).Create(report).Error)
}

// GetByID retrieves a report by its ID
func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &report, nil
}

// List retrieves reports matching the filter, newest first
func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.WardID != "" {
		query = query.Where("ward_id = ?", filter.WardID)
	}
	if filter.SubmitterID != "" {
		query = query.Where("submitter_id = ?", filter.SubmitterID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	reports := []models.Report{}
	err := query.Order("created_at DESC").Order("id DESC").Find(&reports).Error
	return reports, err
}

// MarkVerified flips a pending report to verified; verified reports keep their first stamp
func (r *reportRepository) MarkVerified(ctx context.Context, id, verifiedByID string, at time.Time) (*models.Report, error) {
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ReportStatusVerified,
			"verified_by_id": verifiedByID,
			"verified_at":    at,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to verify report %s: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// CountByWardGroupedByStatus returns the number of reports per status for a ward
func (r *reportRepository) CountByWardGroupedByStatus(ctx context.Context, wardID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("status, COUNT(*) as count").
		Where("ward_id = ?", wardID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reports for ward %s: %w", wardID, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountBySubmitter returns the number of reports a submitter has filed
func (r *reportRepository) CountBySubmitter(ctx context.Context, submitterID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Where("submitter_id = ?", submitterID).Count(&count).Error
	return count, err
}
