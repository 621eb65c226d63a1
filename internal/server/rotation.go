package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	rotationdomain "github.com/salespool/leadrotor/internal/rotation/domain"
	"github.com/salespool/leadrotor/pkg/db/pagination"
)

func (s *Server) GetCandidates(c *gin.Context) {
	var query struct {
		pagination.Pagination
		TargetCount int `form:"target_count"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rotationSvc.GetCandidates(c.Request.Context(), rotationdomain.CandidatesRequest{
		TargetCount: query.TargetCount,
		Page:        query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type manualResetRequest struct {
	Mode        string  `json:"mode"`
	CustomerIDs []int64 `json:"customer_ids"`
	TargetCount *int    `json:"target_count"`
	TriggeredBy string  `json:"triggered_by"`
}

func (s *Server) ManualReset(c *gin.Context) {
	var req manualResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rotationSvc.ManualReset(c.Request.Context(), rotationdomain.ManualResetRequest{
		Mode:        strings.TrimSpace(req.Mode),
		CustomerIDs: req.CustomerIDs,
		TargetCount: req.TargetCount,
		TriggeredBy: strings.TrimSpace(req.TriggeredBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"total_reset": resp.TotalReset,
		"log_deleted": resp.LogDeleted,
	})
}

func (s *Server) GetResetSummary(c *gin.Context) {
	rows, err := s.rotationSvc.GetResetSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

func (s *Server) GetAssignHistory(c *gin.Context) {
	customerID, err := parseRequiredInt64(c.Query("customer_id"))
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
		return
	}

	rows, err := s.rotationSvc.GetAssignHistory(c.Request.Context(), customerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": rows})
}
