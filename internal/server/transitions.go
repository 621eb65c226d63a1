package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salespool/leadrotor/internal/companyctx"
)

const defaultTransitionLimit = 50

// ListTransitions exposes the audit trail for one lead, newest first.
func (s *Server) ListTransitions(c *gin.Context) {
	companyID, ok := companyctx.CompanyIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	customerID, err := parseRequiredInt64(c.Query("customer_id"))
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
		return
	}

	limit := defaultTransitionLimit
	if parsed, err := parseOptionalInt(c.Query("limit")); err == nil && parsed != nil && *parsed > 0 {
		limit = *parsed
	}

	rows, err := s.transitionRepo.ListForCustomer(c.Request.Context(), s.db, companyID, customerID, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transitions": rows})
}
