package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	basketdomain "github.com/salespool/leadrotor/internal/basket/domain"
)

func (s *Server) BasketOverview(c *gin.Context) {
	resp, err := s.basketSvc.Overview(c.Request.Context(), basketdomain.OverviewRequest{
		TargetPage: strings.TrimSpace(c.Query("target_page")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
