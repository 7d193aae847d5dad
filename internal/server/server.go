// Package server exposes the record keeper over HTTP: scan upload, policy
// CRUD for the human-correction loop, and spreadsheet export.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/export"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/pipeline"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

// Server bundles the HTTP handlers and their dependencies.
type Server struct {
	extractor *pipeline.Extractor
	policies  repository.PolicyRepository
	jobs      repository.ScanJobRepository
	exporter  *export.Service
	logger    *slog.Logger
}

func New(extractor *pipeline.Extractor, policies repository.PolicyRepository, jobs repository.ScanJobRepository, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		extractor: extractor,
		policies:  policies,
		jobs:      jobs,
		exporter:  exporter,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/scan", s.handleScan)
		v1.GET("/policies", s.handleListPolicies)
		v1.GET("/policies/export", s.handleExportPolicies)
		v1.POST("/policies", s.handleCreatePolicy)
		v1.GET("/policies/:id", s.handleGetPolicy)
		v1.PUT("/policies/:id", s.handleUpdatePolicy)
		v1.DELETE("/policies/:id", s.handleDeletePolicy)
	}
	return r
}
