package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPolicyCRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db, nil)
	ctx := context.Background()

	rec := entity.PolicyRecord{
		Carrier:        "國泰人壽",
		Category:       "壽險",
		PolicyNumber:   "A123456789",
		Insured:        "王小明",
		CoverageAmount: "1000000",
	}

	created, err := repo.Create(ctx, rec, "scan")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "scan", created.Source)
	assert.InDelta(t, 5.0/14.0, created.Completeness, 1e-9)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "國泰人壽", got.Carrier)
	assert.Equal(t, "A123456789", got.PolicyNumber)

	rec.AnnualPremium = "36000"
	updated, err := repo.Update(ctx, created.ID, rec)
	require.NoError(t, err)
	assert.Equal(t, "36000", updated.AnnualPremium)
	assert.InDelta(t, 6.0/14.0, updated.Completeness, 1e-9)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPolicyListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, entity.PolicyRecord{Carrier: "國泰人壽", Category: "壽險"}, "manual")
	require.NoError(t, err)
	_, err = repo.Create(ctx, entity.PolicyRecord{Carrier: "富邦人壽", Category: "醫療險"}, "manual")
	require.NoError(t, err)

	all, err := repo.List(ctx, PolicyFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cathay, err := repo.List(ctx, PolicyFilter{Carrier: "國泰人壽"})
	require.NoError(t, err)
	require.Len(t, cathay, 1)
	assert.Equal(t, "國泰人壽", cathay[0].Carrier)

	medical, err := repo.List(ctx, PolicyFilter{Category: "醫療險"})
	require.NoError(t, err)
	require.Len(t, medical, 1)
	assert.Equal(t, "富邦人壽", medical[0].Carrier)
}

func TestPolicyUpdateMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewPolicyRepository(db, nil)

	_, err := repo.Update(context.Background(), uuid.New(), entity.PolicyRecord{Carrier: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestScanJobLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewScanJobRepository(db, nil)
	ctx := context.Background()

	job, err := repo.Start(ctx, "scans/policy.jpg")
	require.NoError(t, err)
	assert.Equal(t, "RUNNING", job.Status)

	require.NoError(t, repo.MarkOK(ctx, job.ID, ScanResult{
		Rotation:    90,
		LineCount:   12,
		RecordCount: 3,
	}))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "OK", got.Status)
	assert.Equal(t, 90, got.Rotation)
	assert.Equal(t, 12, got.LineCount)
	assert.Equal(t, 3, got.RecordCount)
}

func TestScanJobMarkFailed(t *testing.T) {
	db := openTestDB(t)
	repo := NewScanJobRepository(db, nil)
	ctx := context.Background()

	job, err := repo.Start(ctx, "scans/blurry.jpg")
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(ctx, job.ID, common.ErrNoText))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAILED", got.Status)
	assert.Contains(t, got.ErrorText, "no text recognized")
}
