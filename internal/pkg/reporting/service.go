// Package reporting owns the report lifecycle: moderated submission, listing and verification.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/app/repository"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/fixmyward/fixmyward/internal/pkg/imagestore"
	"github.com/fixmyward/fixmyward/internal/pkg/moderation"
	"github.com/fixmyward/fixmyward/internal/pkg/reference"
	"github.com/fixmyward/fixmyward/internal/pkg/upload"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// maxReferenceAttempts bounds retries after a reference collision.
const maxReferenceAttempts = 5

// Moderator decides whether a submission may be stored.
type Moderator interface {
	Evaluate(ctx context.Context, img moderation.Image, description string) (moderation.Verdict, error)
}

// Submission is a citizen's new report.
type Submission struct {
	Description string
	Image       *upload.Image
}

// SubmitResult carries the verdict and, when admitted, the stored report.
type SubmitResult struct {
	Report  *models.Report
	Verdict moderation.Verdict
}

// WardSummary counts a ward's reports by status.
type WardSummary struct {
	WardID   string `json:"wardId"`
	Pending  int64  `json:"pending"`
	Verified int64  `json:"verified"`
	Rejected int64  `json:"rejected"`
	Total    int64  `json:"total"`
}

// Service implements the report lifecycle.
type Service struct {
	reports      repository.ReportRepository
	moderator    Moderator
	images       imagestore.Store
	now          func() time.Time
	newID        func() string
	newReference func() (string, error)
}

// NewService creates the report service.
func NewService(reports repository.ReportRepository, moderator Moderator, images imagestore.Store) *Service {
	return &Service{
		reports:      reports,
		moderator:    moderator,
		images:       images,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		newReference: reference.Generate,
	}
}

// Submit screens a citizen's submission and stores it as PENDING when admitted.
// A rejected submission returns the verdict together with a Rejected error and nothing is stored.
func (s *Service) Submit(ctx context.Context, submitter *models.Account, sub Submission) (*SubmitResult, error) {
	if submitter == nil {
		return nil, apperror.Unauthorized("login required")
	}
	if !submitter.IsCitizen() {
		return nil, apperror.Forbidden("only citizens can submit reports")
	}

	description := strings.TrimSpace(sub.Description)
	if description == "" {
		return nil, apperror.Validation("a description is required")
	}
	if sub.Image == nil || len(sub.Image.Data) == 0 {
		return nil, apperror.Validation("a photo is required")
	}

	verdict, err := s.moderator.Evaluate(ctx, moderation.Image{Data: sub.Image.Data, MIMEType: sub.Image.MIMEType}, description)
	if err != nil {
		return nil, err
	}
	result := &SubmitResult{Verdict: verdict}
	if !verdict.Admit {
		log.Infof("[Reports] Submission by %s rejected: %s", submitter.ID, verdict.Reason)
		return result, apperror.Rejected(verdict.Reason)
	}

	now := s.now()
	id := s.newID()
	key := imagestore.ObjectKey(id, sub.Image.Extension(), now)
	url, err := s.images.Put(ctx, key, sub.Image.Data, sub.Image.MIMEType)
	if err != nil {
		return nil, apperror.Internal("failed to store the photo", err)
	}

	report := &models.Report{
		ID:                 id,
		SubmitterID:        submitter.ID,
		SubmitterName:      submitter.Name,
		SubmitterPhone:     submitter.Phone,
		WardID:             submitter.WardID,
		Description:        description,
		ImageKey:           key,
		ImageURL:           url,
		ImageMimeType:      sub.Image.MIMEType,
		Status:             models.ReportStatusPending,
		ModerationCategory: verdict.Category,
		ModerationReason:   verdict.Reason,
		PhotoTakenAt:       sub.Image.Metadata.TakenAt,
		Latitude:           sub.Image.Metadata.Latitude,
		Longitude:          sub.Image.Metadata.Longitude,
		CreatedAt:          now,
	}

	if err := s.create(ctx, report); err != nil {
		if derr := s.images.Delete(context.WithoutCancel(ctx), key); derr != nil {
			log.Warnf("[Reports] Failed to remove photo %s after failed insert: %v", key, derr)
		}
		return nil, err
	}

	log.Infof("[Reports] Report %s (%s) submitted in ward %s", report.ID, report.Reference, report.WardID)
	result.Report = report
	return result, nil
}

// create assigns a reference and inserts, drawing a new reference on collision.
func (s *Service) create(ctx context.Context, report *models.Report) error {
	for attempt := 1; ; attempt++ {
		ref, err := s.newReference()
		if err != nil {
			return apperror.Internal("failed to generate a reference", err)
		}
		report.Reference = ref

		if err := report.Validate(); err != nil {
			return apperror.Validation(err.Error())
		}

		err = s.reports.Create(ctx, report)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt == maxReferenceAttempts {
			return apperror.Internal("failed to save the report", err)
		}
		log.Warnf("[Reports] Reference %s already taken, retrying", ref)
	}
}

// Verify marks a report VERIFIED. Only a councillor of the report's ward may do so.
// Verifying an already verified report is a no-op.
func (s *Service) Verify(ctx context.Context, actor *models.Account, id string) (*models.Report, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("login required")
	}

	if !actor.IsCouncillor() {
		return nil, apperror.Forbidden("only councillors can verify reports")
	}

	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.WardID != report.WardID {
		return nil, apperror.Forbidden("this report belongs to another ward")
	}
	if report.IsVerified() {
		return report, nil
	}

	updated, err := s.reports.MarkVerified(ctx, id, actor.ID, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(fmt.Sprintf("report %s not found", id))
	}
	if err != nil {
		return nil, apperror.Internal("failed to verify the report", err)
	}

	log.Infof("[Reports] Report %s verified by %s", id, actor.ID)
	return updated, nil
}

// Get returns a single report.
func (s *Service) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(fmt.Sprintf("report %s not found", id))
	}
	if err != nil {
		return nil, apperror.Internal("failed to load the report", err)
	}
	return report, nil
}

// List returns reports matching the filter, newest first. The status filter is case-insensitive.
func (s *Service) List(ctx context.Context, filter repository.ReportFilter) ([]models.Report, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !models.IsValidReportStatus(filter.Status) {
		return nil, apperror.Validation(fmt.Sprintf("unknown status %q", filter.Status))
	}

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list reports", err)
	}
	return reports, nil
}

// ListByWard returns a ward's reports, optionally narrowed to one status.
func (s *Service) ListByWard(ctx context.Context, wardID, status string) ([]models.Report, error) {
	if wardID == "" {
		return nil, apperror.Validation("a ward is required")
	}
	return s.List(ctx, repository.ReportFilter{WardID: wardID, Status: status})
}

// ListBySubmitter returns the reports one account has submitted.
func (s *Service) ListBySubmitter(ctx context.Context, submitterID string) ([]models.Report, error) {
	if submitterID == "" {
		return nil, apperror.Validation("a submitter is required")
	}
	return s.List(ctx, repository.ReportFilter{SubmitterID: submitterID})
}

// WardSummary counts a ward's reports per status.
func (s *Service) WardSummary(ctx context.Context, wardID string) (*WardSummary, error) {
	counts, err := s.reports.CountByWardGroupedByStatus(ctx, wardID)
	if err != nil {
		return nil, apperror.Internal("failed to summarise ward reports", err)
	}

	summary := &WardSummary{
		WardID:   wardID,
		Pending:  counts[models.ReportStatusPending],
		Verified: counts[models.ReportStatusVerified],
		Rejected: counts[models.ReportStatusRejected],
	}
	summary.Total = summary.Pending + summary.Verified + summary.Rejected
	return summary, nil
}

// CountBySubmitter returns how many reports an account has filed.
func (s *Service) CountBySubmitter(ctx context.Context, submitterID string) (int64, error) {
	n, err := s.reports.CountBySubmitter(ctx, submitterID)
	if err != nil {
		return 0, apperror.Internal("failed to count reports", err)
	}
	return n, nil
}
