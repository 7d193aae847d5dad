package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/constants"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/entity"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

func (s *Server) handleCreatePolicy(c *gin.Context) {
	var rec entity.PolicyRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.sendError(c, http.StatusBadRequest, "invalid policy payload", err)
		return
	}
	if rec.IsEmpty() {
		s.sendError(c, http.StatusBadRequest, "policy must have at least one field", nil)
		return
	}
	canonicalizeCategory(&rec)

	p, err := s.policies.Create(c.Request.Context(), rec, "manual")
	if err != nil {
		s.sendError(c, common.HTTPStatus(err), "failed to create policy", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleListPolicies(c *gin.Context) {
	filter := repository.PolicyFilter{
		Carrier:  c.Query("carrier"),
		Category: c.Query("category"),
	}
	policies, err := s.policies.List(c.Request.Context(), filter)
	if err != nil {
		s.sendError(c, common.HTTPStatus(err), "failed to list policies", err)
		return
	}
	if policies == nil {
		policies = []*entity.Policy{}
	}
	c.JSON(http.StatusOK, gin.H{"policies": policies})
}

func (s *Server) handleGetPolicy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "invalid policy id", err)
		return
	}
	p, err := s.policies.GetByID(c.Request.Context(), id)
	if err != nil {
		s.sendError(c, common.HTTPStatus(err), "failed to get policy", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdatePolicy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "invalid policy id", err)
		return
	}
	var rec entity.PolicyRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.sendError(c, http.StatusBadRequest, "invalid policy payload", err)
		return
	}
	canonicalizeCategory(&rec)
	p, err := s.policies.Update(c.Request.Context(), id, rec)
	if err != nil {
		s.sendError(c, common.HTTPStatus(err), "failed to update policy", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeletePolicy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "invalid policy id", err)
		return
	}
	if err := s.policies.Delete(c.Request.Context(), id); err != nil {
		s.sendError(c, common.HTTPStatus(err), "failed to delete policy", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// canonicalizeCategory maps free-text category input to the closed category
// set, so manual entries match what the extraction pipeline emits.
func canonicalizeCategory(rec *entity.PolicyRecord) {
	if rec.Category == "" {
		return
	}
	if cat, ok := constants.Canonicalize(rec.Category); ok {
		rec.Category = string(cat)
	}
}

func (s *Server) handleExportPolicies(c *gin.Context) {
	filter := repository.PolicyFilter{
		Carrier:  c.Query("carrier"),
		Category: c.Query("category"),
	}
	data, err := s.exporter.ExportPoliciesXLSX(c.Request.Context(), filter)
	if err != nil {
		s.sendError(c, common.HTTPStatus(err), "failed to export policies", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="policies.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
