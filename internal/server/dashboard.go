package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	dashboarddomain "github.com/smallbiznis/wasafinance/internal/dashboard/domain"
)

func (s *Server) GetDashboard(c *gin.Context) {
	year, month, err := parseMonthQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.dashboardSvc.Summary(c.Request.Context(), dashboarddomain.SummaryRequest{
		Year:  year,
		Month: month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
