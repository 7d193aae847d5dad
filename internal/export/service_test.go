package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

type stubPolicyRepo struct {
	policies []*entity.Policy
	err      error
	filter   repository.PolicyFilter
}

func (s *stubPolicyRepo) Create(context.Context, entity.PolicyRecord, string) (*entity.Policy, error) {
	panic("not used")
}

func (s *stubPolicyRepo) GetByID(context.Context, uuid.UUID) (*entity.Policy, error) {
	panic("not used")
}

func (s *stubPolicyRepo) List(_ context.Context, filter repository.PolicyFilter) ([]*entity.Policy, error) {
	s.filter = filter
	return s.policies, s.err
}

func (s *stubPolicyRepo) Update(context.Context, uuid.UUID, entity.PolicyRecord) (*entity.Policy, error) {
	panic("not used")
}

func (s *stubPolicyRepo) Delete(context.Context, uuid.UUID) error {
	panic("not used")
}

func TestExportPoliciesXLSX(t *testing.T) {
	repo := &stubPolicyRepo{policies: []*entity.Policy{
		{
			ID: uuid.New(),
			PolicyRecord: entity.PolicyRecord{
				Carrier:        "國泰人壽",
				Category:       "壽險",
				PolicyNumber:   "A123456789",
				Insured:        "王小明",
				CoverageAmount: "1000000",
			},
			Source:       "scan",
			Completeness: 5.0 / 14.0,
			CreatedAt:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: uuid.New(),
			PolicyRecord: entity.PolicyRecord{
				Carrier:  "富邦人壽",
				Category: "醫療險",
			},
			Source:    "manual",
			CreatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewService(repo, nil)

	data, err := svc.ExportPoliciesXLSX(context.Background(), repository.PolicyFilter{Carrier: "國泰人壽"})
	require.NoError(t, err)
	assert.Equal(t, "國泰人壽", repo.filter.Carrier)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Policies")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportHeaders, rows[0][:len(exportHeaders)])

	assert.Equal(t, "國泰人壽", rows[1][0])
	assert.Equal(t, "A123456789", rows[1][2])
	assert.Equal(t, "36%", rows[1][14])
	assert.Equal(t, "2025-06-01", rows[1][16])

	assert.Equal(t, "富邦人壽", rows[2][0])
	assert.Equal(t, "manual", rows[2][15])
}

func TestExportPoliciesXLSXEmpty(t *testing.T) {
	svc := NewService(&stubPolicyRepo{}, nil)

	data, err := svc.ExportPoliciesXLSX(context.Background(), repository.PolicyFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Policies")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestExportPoliciesXLSXQueryError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&stubPolicyRepo{err: boom}, nil)

	_, err := svc.ExportPoliciesXLSX(context.Background(), repository.PolicyFilter{})
	assert.ErrorIs(t, err, boom)
}
