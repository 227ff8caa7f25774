package repository

import (
	"errors"

	"gorm.io/gorm"
)

// NewRepositories creates the GORM-backed repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account: NewAccountRepository(db),
		Report:  NewReportRepository(db),
		Ward:    NewWardRepository(db),
	}
}

// translateGormError maps GORM errors onto the package errors.
func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
