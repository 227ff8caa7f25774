package repository

import (
	"context"

	"github.com/fixmyward/fixmyward/app/models"
	"gorm.io/gorm"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account in the database
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translateGormError(r.db.WithContext(ctx).Create(account).Error)
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &account, nil
}

// GetByPhone retrieves an account by its phone number
func (r *accountRepository) GetByPhone(ctx context.Context, phone string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&account).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &account, nil
}

// GetByPhoneAndRole retrieves an account by its login key and role
func (r *accountRepository) GetByPhoneAndRole(ctx context.Context, phone, role string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("phone = ? AND role = ?", phone, role).First(&account).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &account, nil
}
