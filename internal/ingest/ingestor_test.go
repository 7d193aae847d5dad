package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/pipeline"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/recognize"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

// fakeRecognizer serves canned lines for the upright rotation only.
type fakeRecognizer struct {
	lines []recognize.Line
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte, rot recognize.Rotation, _ recognize.Options) ([]recognize.Line, error) {
	if rot != recognize.Rotate0 {
		return nil, nil
	}
	return f.lines, nil
}

type ingestFixture struct {
	db       *repository.DB
	policies repository.PolicyRepository
	jobs     repository.ScanJobRepository
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &ingestFixture{
		db:       db,
		policies: repository.NewPolicyRepository(db, nil),
		jobs:     repository.NewScanJobRepository(db, nil),
	}
}

func (f *ingestFixture) lastJob(t *testing.T) (status string, recordCount int) {
	t.Helper()
	err := f.db.QueryRowContext(context.Background(),
		`SELECT status, record_count FROM scan_jobs ORDER BY created_at DESC LIMIT 1`).
		Scan(&status, &recordCount)
	require.NoError(t, err)
	return status, recordCount
}

func writeScan(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	return path
}

func TestProcessFilePersistsRecords(t *testing.T) {
	fx := newIngestFixture(t)
	rec := &fakeRecognizer{lines: []recognize.Line{
		{Text: "國泰人壽終身壽險保單 被保險人：王小明", Confidence: 0.9},
	}}
	extractor := pipeline.NewExtractor(rec, nil, nil)
	ing := NewIngestor(extractor, fx.policies, fx.jobs, nil)

	ing.processFile(context.Background(), writeScan(t, "policy.jpg"))

	policies, err := fx.policies.List(context.Background(), repository.PolicyFilter{})
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, "國泰人壽", policies[0].Carrier)
	assert.Equal(t, "scan", policies[0].Source)

	status, recordCount := fx.lastJob(t)
	assert.Equal(t, "OK", status)
	assert.Equal(t, 1, recordCount)
}

func TestProcessFileCountsExtractedNotPersisted(t *testing.T) {
	fx := newIngestFixture(t)
	// Recognizable text with no extractable fields: one empty draft is
	// extracted but nothing is stored.
	rec := &fakeRecognizer{lines: []recognize.Line{
		{Text: "這是一張普通的照片", Confidence: 0.9},
	}}
	extractor := pipeline.NewExtractor(rec, nil, nil)
	ing := NewIngestor(extractor, fx.policies, fx.jobs, nil)

	ing.processFile(context.Background(), writeScan(t, "noise.jpg"))

	policies, err := fx.policies.List(context.Background(), repository.PolicyFilter{})
	require.NoError(t, err)
	assert.Empty(t, policies)

	status, recordCount := fx.lastJob(t)
	assert.Equal(t, "OK", status)
	assert.Equal(t, 1, recordCount)
}

func TestProcessFileMarksUnreadableFileFailed(t *testing.T) {
	fx := newIngestFixture(t)
	extractor := pipeline.NewExtractor(&fakeRecognizer{}, nil, nil)
	ing := NewIngestor(extractor, fx.policies, fx.jobs, nil)

	ing.processFile(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))

	status, _ := fx.lastJob(t)
	assert.Equal(t, "FAILED", status)
}
