package server

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/wasafinance/internal/report/domain"
)

// GenerateReport streams the PDF for /admin/reports/:type as an attachment.
func (s *Server) GenerateReport(c *gin.Context) {
	year, month, err := parseMonthQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reportSvc.Generate(c.Request.Context(), reportdomain.GenerateRequest{
		Type:  c.Param("type"),
		Year:  year,
		Month: month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.Filename}))
	c.Header("X-Report-ID", report.ID)
	c.Data(http.StatusOK, report.ContentType, report.Body)
}
