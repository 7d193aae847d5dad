package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/constants"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
)

// ScanResult carries the outcome fields recorded on a finished job.
type ScanResult struct {
	Rotation    int
	LineCount   int
	RecordCount int
}

type ScanJobRepository interface {
	Start(ctx context.Context, sourcePath string) (*entity.ScanJob, error)
	MarkOK(ctx context.Context, id uuid.UUID, res ScanResult) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause error) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ScanJob, error)
}

type scanJobRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewScanJobRepository(db *DB, logger *slog.Logger) ScanJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &scanJobRepository{db: db, logger: logger}
}

func (r *scanJobRepository) Start(ctx context.Context, sourcePath string) (*entity.ScanJob, error) {
	now := time.Now().UTC()
	job := &entity.ScanJob{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		Status:     string(constants.ScanStatusRunning),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	query := r.db.rebind(`INSERT INTO scan_jobs
		(id, source_path, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		job.ID.String(), job.SourcePath, job.Status, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to start scan job", "error", err)
		return nil, common.WrapError(err, "start scan job")
	}
	return job, nil
}

func (r *scanJobRepository) MarkOK(ctx context.Context, id uuid.UUID, res ScanResult) error {
	query := r.db.rebind(`UPDATE scan_jobs SET
		status = ?, rotation = ?, line_count = ?, record_count = ?, updated_at = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query,
		string(constants.ScanStatusOK), res.Rotation, res.LineCount,
		res.RecordCount, time.Now().UTC(), id.String())
	if err != nil {
		r.logger.Error("failed to mark scan job ok", "id", id, "error", err)
		return common.WrapError(err, "mark scan job ok")
	}
	return nil
}

func (r *scanJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	query := r.db.rebind(`UPDATE scan_jobs SET status = ?, error_text = ?, updated_at = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query,
		string(constants.ScanStatusFailed), msg, time.Now().UTC(), id.String())
	if err != nil {
		r.logger.Error("failed to mark scan job failed", "id", id, "error", err)
		return common.WrapError(err, "mark scan job failed")
	}
	return nil
}

func (r *scanJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScanJob, error) {
	query := r.db.rebind(`SELECT id, source_path, status, rotation, line_count,
		record_count, error_text, created_at, updated_at
		FROM scan_jobs WHERE id = ?`)
	var (
		job   entity.ScanJob
		rawID string
	)
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &job.SourcePath, &job.Status, &job.Rotation, &job.LineCount,
		&job.RecordCount, &job.ErrorText, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get scan job")
	}
	job.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
