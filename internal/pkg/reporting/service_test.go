package reporting

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/app/repository"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/fixmyward/fixmyward/internal/pkg/moderation"
	"github.com/fixmyward/fixmyward/internal/pkg/testutil"
	"github.com/fixmyward/fixmyward/internal/pkg/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	verdict moderation.Verdict
	err     error
}

func (s *stubClassifier) Classify(ctx context.Context, img moderation.Image, description string) (moderation.Verdict, error) {
	return s.verdict, s.err
}

type memoryImages struct {
	objects map[string][]byte
}

func (m *memoryImages) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.objects[key] = data
	return "/uploads/" + key, nil
}

func (m *memoryImages) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

// failingReports refuses every insert.
type failingReports struct {
	repository.ReportRepository
	err error
}

func (r *failingReports) Create(ctx context.Context, report *models.Report) error {
	return r.err
}

type fixture struct {
	svc        *Service
	repos      *repository.Repositories
	classifier *stubClassifier
	images     *memoryImages
	clock      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repos:      testutil.NewRepositories(t),
		classifier: &stubClassifier{verdict: moderation.Verdict{Admit: true, Category: "Road", Reason: "Valid road damage"}},
		images:     &memoryImages{objects: map[string][]byte{}},
		clock:      time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repos.Report, moderation.NewGate(f.classifier, time.Second), f.images)
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

var (
	asha    = &models.Account{ID: "a1", Name: "Asha", Phone: "9876543210", Role: models.ROLE_CITIZEN, WardID: "151"}
	ravi    = &models.Account{ID: "a2", Name: "Ravi", Phone: "9876500000", Role: models.ROLE_CITIZEN, WardID: "128"}
	reddy   = &models.Account{ID: "c1", Name: "Manjunath Reddy", Phone: "9000000001", Role: models.ROLE_COUNCILLOR, WardID: "151"}
	outside = &models.Account{ID: "c2", Name: "C.K. Ramamurthy", Phone: "9000000002", Role: models.ROLE_COUNCILLOR, WardID: "128"}
)

func roadPhoto() *upload.Image {
	return &upload.Image{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, MIMEType: "image/jpeg"}
}

func submit(t *testing.T, f *fixture, who *models.Account, description string) *models.Report {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), who, Submission{Description: description, Image: roadPhoto()})
	require.NoError(t, err)
	require.NotNil(t, res.Report)
	return res.Report
}

func TestSubmitAdmittedReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r := submit(t, f, asha, "Pothole on 5th Main")
	assert.Equal(t, models.ReportStatusPending, r.Status)
	assert.Equal(t, "Valid road damage", r.ModerationReason)
	assert.Equal(t, "Road", r.ModerationCategory)
	assert.Equal(t, "151", r.WardID)
	assert.Equal(t, "Asha", r.SubmitterName)
	assert.Len(t, r.Reference, 6)
	assert.Contains(t, f.images.objects, r.ImageKey)

	mine, err := f.svc.ListBySubmitter(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, r.ID, mine[0].ID)

	ward, err := f.svc.ListByWard(ctx, "151", "")
	require.NoError(t, err)
	require.Len(t, ward, 1)

	other, err := f.svc.ListByWard(ctx, "128", "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSubmitRejectedIsNotStored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.classifier.verdict = moderation.Verdict{Admit: false, Reason: "Selfie detected, not a civic issue"}

	res, err := f.svc.Submit(ctx, asha, Submission{Description: "Pothole on 5th Main", Image: roadPhoto()})
	assert.ErrorIs(t, err, apperror.ErrRejected)
	assert.Equal(t, "Selfie detected, not a civic issue", apperror.MessageOf(err))
	require.NotNil(t, res)
	assert.Nil(t, res.Report)
	assert.False(t, res.Verdict.Admit)

	n, err := f.svc.CountBySubmitter(ctx, "a1")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.images.objects)
}

func TestSubmitInsertFailureRemovesPhoto(t *testing.T) {
	f := newFixture(t)
	f.svc.reports = &failingReports{ReportRepository: f.repos.Report, err: errors.New("db down")}

	res, err := f.svc.Submit(context.Background(), asha, Submission{Description: "Pothole on 5th Main", Image: roadPhoto()})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Equal(t, "failed to save the report", apperror.MessageOf(err))
	assert.Nil(t, res)
	assert.Empty(t, f.images.objects)
}

func TestSubmitClassifierFailureAdmits(t *testing.T) {
	f := newFixture(t)
	f.classifier.err = errors.New("connection reset")

	r := submit(t, f, asha, "Overflowing garbage bin")
	assert.Equal(t, models.ReportStatusPending, r.Status)
	assert.Equal(t, moderation.FallbackCategory, r.ModerationCategory)
	assert.Equal(t, moderation.FallbackReason, r.ModerationReason)
}

func TestSubmitRequiresCitizenAndInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Submit(ctx, nil, Submission{Description: "x", Image: roadPhoto()})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = f.svc.Submit(ctx, reddy, Submission{Description: "x", Image: roadPhoto()})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Submit(ctx, asha, Submission{Description: "  ", Image: roadPhoto()})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.Submit(ctx, asha, Submission{Description: "Pothole"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSubmitRetriesReferenceCollision(t *testing.T) {
	f := newFixture(t)
	refs := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	f.svc.newReference = func() (string, error) {
		ref := refs[0]
		refs = refs[1:]
		return ref, nil
	}

	first := submit(t, f, asha, "Broken footpath")
	second := submit(t, f, asha, "Broken footpath again")
	assert.Equal(t, "AAAAAA", first.Reference)
	assert.Equal(t, "BBBBBB", second.Reference)
}

func TestVerifyLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := submit(t, f, asha, "Pothole on 5th Main")

	verified, err := f.svc.Verify(ctx, reddy, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedAt)
	stamp := *verified.VerifiedAt

	again, err := f.svc.Verify(ctx, reddy, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusVerified, again.Status)
	assert.True(t, stamp.Equal(*again.VerifiedAt))

	ward, err := f.svc.ListByWard(ctx, "151", "")
	require.NoError(t, err)
	require.Len(t, ward, 1)
	assert.Equal(t, models.ReportStatusVerified, ward[0].Status)

	mine, err := f.svc.ListBySubmitter(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusVerified, mine[0].Status)

	pending, err := f.svc.ListByWard(ctx, "151", "pending")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestVerifyUnknownReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := submit(t, f, asha, "Pothole")

	_, err := f.svc.Verify(ctx, reddy, "does-not-exist")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// a citizen learns nothing about which ids exist
	_, err = f.svc.Verify(ctx, asha, "does-not-exist")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := f.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, got.Status)
}

func TestVerifyAuthorisation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := submit(t, f, asha, "Pothole")

	_, err := f.svc.Verify(ctx, asha, r.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Verify(ctx, outside, r.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Verify(ctx, nil, r.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	got, err := f.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPending())
}

func TestListingsAreNewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ashaIDs []string
	for i := 0; i < 3; i++ {
		ashaIDs = append(ashaIDs, submit(t, f, asha, fmt.Sprintf("Issue %d", i)).ID)
	}
	raviReport := submit(t, f, ravi, "Streetlight out")

	ward, err := f.svc.ListByWard(ctx, "151", "")
	require.NoError(t, err)
	require.Len(t, ward, 3)
	for i, r := range ward {
		assert.Equal(t, ashaIDs[len(ashaIDs)-1-i], r.ID)
		assert.Equal(t, "151", r.WardID)
	}

	mine, err := f.svc.ListBySubmitter(ctx, "a2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, raviReport.ID, mine[0].ID)

	_, err = f.svc.ListByWard(ctx, "151", "closed")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestWardSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := submit(t, f, asha, "Pothole")
	submit(t, f, asha, "Garbage")
	submit(t, f, ravi, "Streetlight")

	_, err := f.svc.Verify(ctx, reddy, first.ID)
	require.NoError(t, err)

	s, err := f.svc.WardSummary(ctx, "151")
	require.NoError(t, err)
	assert.Equal(t, &WardSummary{WardID: "151", Pending: 1, Verified: 1, Total: 2}, s)
}
