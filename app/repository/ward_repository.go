package repository

import (
	"context"

	"github.com/fixmyward/fixmyward/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// wardRepository implements the WardRepository interface
type wardRepository struct {
	db *gorm.DB
}

// NewWardRepository creates a new ward repository instance
func NewWardRepository(db *gorm.DB) WardRepository {
	return &wardRepository{db: db}
}

// Upsert inserts a ward or refreshes its descriptive fields
func (r *wardRepository) Upsert(ctx context.Context, ward *models.Ward) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "councillor_name", "party"}),
	}).Create(ward).Error
}

// GetByID retrieves a ward by its code
func (r *wardRepository) GetByID(ctx context.Context, id string) (*models.Ward, error) {
	var ward models.Ward
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ward).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &ward, nil
}

// List retrieves all wards ordered by name
func (r *wardRepository) List(ctx context.Context) ([]models.Ward, error) {
	wards := []models.Ward{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&wards).Error
	return wards, err
}
