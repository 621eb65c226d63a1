package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	distributiondomain "github.com/salespool/leadrotor/internal/distribution/domain"
)

type distributeRequest struct {
	Assignments     []distributiondomain.AssignmentPair `json:"assignments"`
	SourceBasketKey string                              `json:"source_basket_key"`
	TargetBasketKey string                              `json:"target_basket_key"`
	TriggeredBy     string                              `json:"triggered_by"`
}

func (s *Server) Distribute(c *gin.Context) {
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Assignments) == 0 {
		AbortWithError(c, newValidationError("assignments", "empty_batch", "assignments must not be empty"))
		return
	}

	resp, err := s.distributionSvc.Distribute(c.Request.Context(), distributiondomain.DistributeRequest{
		Pairs:           req.Assignments,
		SourceBasketKey: strings.TrimSpace(req.SourceBasketKey),
		TargetBasketKey: strings.TrimSpace(req.TargetBasketKey),
		TriggeredBy:     strings.TrimSpace(req.TriggeredBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"success_ids":   resp.SuccessIDs,
		"failed_ids":    resp.FailedIDs,
		"failed":        resp.Failed,
		"skipped_pairs": resp.SkippedPairs,
		"agent_stats":   resp.AgentStats,
		"total_success": resp.TotalSuccess,
		"total_failed":  resp.TotalFailed,
	})
}

type bulkDistributeRequest struct {
	Count         int     `json:"count"`
	AgentIDs      []int64 `json:"agent_ids"`
	TargetStatus  string  `json:"target_status"`
	OwnershipDays int     `json:"ownership_days"`
	TriggeredBy   string  `json:"triggered_by"`
}

func (s *Server) BulkDistribute(c *gin.Context) {
	var req bulkDistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Count <= 0 {
		AbortWithError(c, newValidationError("count", "invalid_count", "count must be positive"))
		return
	}

	resp, err := s.distributionSvc.BulkDistribute(c.Request.Context(), distributiondomain.BulkDistributeRequest{
		Count:         req.Count,
		AgentIDs:      req.AgentIDs,
		TargetStatus:  strings.TrimSpace(req.TargetStatus),
		OwnershipDays: req.OwnershipDays,
		TriggeredBy:   strings.TrimSpace(req.TriggeredBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"distributed": resp.Distributed,
		"assignments": resp.Assignments,
		"skipped":     resp.Skipped,
	})
}
