// Package ingest discovers scan images in watched folders and runs them
// through the extraction pipeline, persisting the resulting drafts.
package ingest

import (
	"context"
	"log/slog"
	"os"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/pipeline"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

// Ingestor processes discovered files one at a time. One bad photo must
// never stop the watcher, so per-file failures are recorded on the scan job
// and logged, not propagated.
type Ingestor struct {
	extractor *pipeline.Extractor
	policies  repository.PolicyRepository
	jobs      repository.ScanJobRepository
	logger    *slog.Logger
}

func NewIngestor(extractor *pipeline.Extractor, policies repository.PolicyRepository, jobs repository.ScanJobRepository, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{extractor: extractor, policies: policies, jobs: jobs, logger: logger}
}

// Run consumes file paths until the channel closes or ctx is cancelled.
func (in *Ingestor) Run(ctx context.Context, files <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-files:
			if !ok {
				return
			}
			in.processFile(ctx, path)
		}
	}
}

func (in *Ingestor) processFile(ctx context.Context, path string) {
	job, err := in.jobs.Start(ctx, path)
	if err != nil {
		in.logger.Error("ingest.job.start_failed", "path", path, "err", err)
		return
	}

	img, err := os.ReadFile(path)
	if err != nil {
		in.logger.Error("ingest.read_failed", "path", path, "err", err)
		_ = in.jobs.MarkFailed(ctx, job.ID, err)
		return
	}

	res, err := in.extractor.ExtractImage(ctx, img)
	if err != nil {
		in.logger.Warn("ingest.extract_failed", "path", path, "err", err)
		_ = in.jobs.MarkFailed(ctx, job.ID, err)
		return
	}

	saved := 0
	for _, rec := range res.Records {
		if rec.IsEmpty() {
			continue
		}
		if _, err := in.policies.Create(ctx, rec, "scan"); err != nil {
			in.logger.Error("ingest.save_failed", "path", path, "err", err)
			continue
		}
		saved++
	}

	if err := in.jobs.MarkOK(ctx, job.ID, repository.ScanResult{
		Rotation:    int(res.Rotation),
		LineCount:   len(res.Lines),
		RecordCount: len(res.Records),
	}); err != nil {
		in.logger.Error("ingest.job.finish_failed", "path", path, "err", err)
		return
	}
	in.logger.Info("ingest.ok", "path", path, "records", saved, "job_id", job.ID)
}
