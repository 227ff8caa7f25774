package repository

import (
	"context"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
)

// AccountRepository defines the interface for account-related storage operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByPhone(ctx context.Context, phone string) (*models.Account, error)
	GetByPhoneAndRole(ctx context.Context, phone, role string) (*models.Account, error)
}

// ReportRepository defines the interface for report-related storage operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	// List returns matching reports newest-first by creation time.
	List(ctx context.Context, filter ReportFilter) ([]models.Report, error)
	// MarkVerified moves a PENDING report to VERIFIED and returns the stored report.
	// A report that is already verified is returned unchanged.
	MarkVerified(ctx context.Context, id, verifiedByID string, at time.Time) (*models.Report, error)
	CountByWardGroupedByStatus(ctx context.Context, wardID string) (map[string]int64, error)
	CountBySubmitter(ctx context.Context, submitterID string) (int64, error)
}

// WardRepository defines the interface for the ward directory
type WardRepository interface {
	Upsert(ctx context.Context, ward *models.Ward) error
	GetByID(ctx context.Context, id string) (*models.Ward, error)
	List(ctx context.Context) ([]models.Ward, error)
}

// ReportFilter narrows a report listing. Empty fields do not filter.
type ReportFilter struct {
	WardID      string
	SubmitterID string
	Status      string
}

// Repositories struct holds all repository instances
type Repositories struct {
	Account AccountRepository
	Report  ReportRepository
	Ward    WardRepository
}
