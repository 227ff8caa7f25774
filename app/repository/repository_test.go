package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/app/repository"
	"github.com/fixmyward/fixmyward/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(id, ref, wardID, submitterID string, createdAt time.Time) *models.Report {
	return &models.Report{
		ID:             id,
		Reference:      ref,
		SubmitterID:    submitterID,
		SubmitterName:  "Asha",
		SubmitterPhone: "9876543210",
		WardID:         wardID,
		Description:    "Pothole near the bus stop",
		ImageKey:       "reports/" + id + ".jpg",
		ImageURL:       "/uploads/reports/" + id + ".jpg",
		Status:         models.ReportStatusPending,
		CreatedAt:      createdAt,
	}
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)

	acc := &models.Account{ID: "a1", Name: "Asha", Phone: "9876543210", Password: "hash", Role: models.ROLE_CITIZEN, WardID: "151"}
	require.NoError(t, repos.Account.Create(ctx, acc))

	got, err := repos.Account.GetByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	_, err = repos.Account.GetByPhoneAndRole(ctx, "9876543210", models.ROLE_COUNCILLOR)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dup := &models.Account{ID: "a2", Name: "Other", Phone: "9876543210", Password: "hash", Role: models.ROLE_CITIZEN, WardID: "128"}
	assert.ErrorIs(t, repos.Account.Create(ctx, dup), repository.ErrDuplicate)

	_, err = repos.Account.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReportRepositoryListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Report.Create(ctx, newReport("r1", "AAAAAA", "151", "a1", base)))
	require.NoError(t, repos.Report.Create(ctx, newReport("r2", "BBBBBB", "151", "a2", base.Add(time.Hour))))
	require.NoError(t, repos.Report.Create(ctx, newReport("r3", "CCCCCC", "128", "a1", base.Add(2*time.Hour))))

	ward, err := repos.Report.List(ctx, repository.ReportFilter{WardID: "151"})
	require.NoError(t, err)
	require.Len(t, ward, 2)
	assert.Equal(t, "r2", ward[0].ID)
	assert.Equal(t, "r1", ward[1].ID)

	mine, err := repos.Report.List(ctx, repository.ReportFilter{SubmitterID: "a1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "r3", mine[0].ID)

	none, err := repos.Report.List(ctx, repository.ReportFilter{WardID: "999"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	count, err := repos.Report.CountBySubmitter(ctx, "a1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestReportRepositoryDuplicateReference(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	now := time.Now().UTC()

	require.NoError(t, repos.Report.Create(ctx, newReport("r1", "AAAAAA", "151", "a1", now)))
	err := repos.Report.Create(ctx, newReport("r2", "AAAAAA", "151", "a1", now))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestReportRepositoryMarkVerifiedKeepsFirstStamp(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	require.NoError(t, repos.Report.Create(ctx, newReport("r1", "AAAAAA", "151", "a1", time.Now().UTC())))

	first := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	got, err := repos.Report.MarkVerified(ctx, "r1", "c1", first)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusVerified, got.Status)
	require.NotNil(t, got.VerifiedByID)
	assert.Equal(t, "c1", *got.VerifiedByID)
	require.NotNil(t, got.VerifiedAt)
	assert.True(t, first.Equal(got.VerifiedAt.UTC()))

	again, err := repos.Report.MarkVerified(ctx, "r1", "c2", first.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "c1", *again.VerifiedByID)
	assert.True(t, first.Equal(again.VerifiedAt.UTC()))

	_, err = repos.Report.MarkVerified(ctx, "missing", "c1", first)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReportRepositoryCountByWard(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	now := time.Now().UTC()

	require.NoError(t, repos.Report.Create(ctx, newReport("r1", "AAAAAA", "151", "a1", now)))
	require.NoError(t, repos.Report.Create(ctx, newReport("r2", "BBBBBB", "151", "a1", now)))
	require.NoError(t, repos.Report.Create(ctx, newReport("r3", "CCCCCC", "128", "a1", now)))
	_, err := repos.Report.MarkVerified(ctx, "r1", "c1", now)
	require.NoError(t, err)

	counts, err := repos.Report.CountByWardGroupedByStatus(ctx, "151")
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[models.ReportStatusPending])
	assert.EqualValues(t, 1, counts[models.ReportStatusVerified])
	assert.EqualValues(t, 0, counts[models.ReportStatusRejected])
}

func TestWardRepositoryUpsertAndList(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)

	require.NoError(t, repos.Ward.Upsert(ctx, &models.Ward{ID: "151", Name: "Koramangala", CouncillorName: "Old", Party: "INC"}))
	require.NoError(t, repos.Ward.Upsert(ctx, &models.Ward{ID: "128", Name: "Jayanagar", CouncillorName: "C.K. Ramamurthy", Party: "BJP"}))
	require.NoError(t, repos.Ward.Upsert(ctx, &models.Ward{ID: "151", Name: "Koramangala", CouncillorName: "Manjunath Reddy", Party: "INC"}))

	wards, err := repos.Ward.List(ctx)
	require.NoError(t, err)
	require.Len(t, wards, 2)
	assert.Equal(t, "Jayanagar", wards[0].Name)

	w, err := repos.Ward.GetByID(ctx, "151")
	require.NoError(t, err)
	assert.Equal(t, "Manjunath Reddy", w.CouncillorName)
}
