package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/salespool/leadrotor/internal/companyctx"
)

const (
	HeaderCompany = "X-Company-ID"
	HeaderUser    = "X-User-ID"
	HeaderRole    = "X-User-Role"
)

// CompanyContext resolves the company scope the upstream gateway put on
// the request. Every /v1 route requires it; the fallback company only
// applies in single-tenant installs where DEFAULT_COMPANY is set.
func (s *Server) CompanyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := parseHeaderID(c, HeaderCompany)
		if companyID == 0 {
			companyID = s.cfg.DefaultCompanyID
		}
		if companyID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := companyctx.WithCompanyID(c.Request.Context(), companyID)
		if userID := parseHeaderID(c, HeaderUser); userID != 0 {
			ctx = companyctx.WithActor(ctx, companyctx.Actor{
				UserID: userID,
				Role:   strings.TrimSpace(c.GetHeader(HeaderRole)),
			})
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func parseHeaderID(c *gin.Context, header string) int64 {
	raw := strings.TrimSpace(c.GetHeader(header))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
