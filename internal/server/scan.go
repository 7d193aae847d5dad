package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

type scanRecord struct {
	entity.PolicyRecord
	Completeness float64 `json:"completeness"`
}

type scanResponse struct {
	JobID    string       `json:"job_id"`
	Rotation int          `json:"rotation"`
	Tabular  bool         `json:"tabular"`
	Records  []scanRecord `json:"records"`
}

// handleScan accepts a multipart image upload, runs the extraction pipeline
// and returns draft records for review. With persist=true the drafts are
// also stored immediately.
func (s *Server) handleScan(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "image file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "failed to open upload", err)
		return
	}
	defer file.Close()

	img, err := io.ReadAll(file)
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	ctx := c.Request.Context()
	job, err := s.jobs.Start(ctx, fileHeader.Filename)
	if err != nil {
		s.sendError(c, http.StatusInternalServerError, "failed to record scan job", err)
		return
	}

	res, err := s.extractor.ExtractImage(ctx, img)
	if err != nil {
		_ = s.jobs.MarkFailed(ctx, job.ID, err)
		s.sendError(c, common.HTTPStatus(err), "extraction failed", err)
		return
	}

	persist := c.Query("persist") == "true"
	saved := 0
	out := make([]scanRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		out = append(out, scanRecord{PolicyRecord: rec, Completeness: rec.Completeness()})
		if persist && !rec.IsEmpty() {
			if _, err := s.policies.Create(ctx, rec, "scan"); err != nil {
				s.logger.Error("server.scan.save_failed", "err", err)
				continue
			}
			saved++
		}
	}

	if err := s.jobs.MarkOK(ctx, job.ID, repository.ScanResult{
		Rotation:    int(res.Rotation),
		LineCount:   len(res.Lines),
		RecordCount: len(res.Records),
	}); err != nil {
		s.logger.Error("server.scan.job_finish_failed", "err", err)
	}

	s.logger.Info("server.scan.ok",
		"job_id", job.ID,
		"records", len(res.Records),
		"persisted", saved,
	)
	c.JSON(http.StatusOK, scanResponse{
		JobID:    job.ID.String(),
		Rotation: int(res.Rotation),
		Tabular:  res.Tabular,
		Records:  out,
	})
}

func (s *Server) sendError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("server.request_failed", "status", status, "message", message, "err", err)
	}
	c.JSON(status, gin.H{"error": message})
}
