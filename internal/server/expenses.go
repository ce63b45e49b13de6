package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
)

// expenseRequest accepts dates as YYYY-MM-DD in the business timezone or
// as RFC3339.
type expenseRequest struct {
	Description *string `json:"description"`
	Amount      *int64  `json:"amount"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
}

func (r expenseRequest) date(loc *time.Location) (*time.Time, error) {
	if r.Date == nil {
		return nil, nil
	}
	parsed, err := parseOptionalTime(*r.Date, false, loc)
	if err != nil || parsed == nil {
		return nil, expensedomain.ErrInvalidDate
	}
	return parsed, nil
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := req.date(s.cfg.Location())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	create := expensedomain.CreateExpenseRequest{}
	if req.Description != nil {
		create.Description = *req.Description
	}
	if req.Amount != nil {
		create.Amount = *req.Amount
	}
	if req.Category != nil {
		create.Category = *req.Category
	}
	if date != nil {
		create.Date = *date
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	selected, err := s.optionalPeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListExpenseRequest{
		Category: strings.TrimSpace(c.Query("category")),
		Period:   selected,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	resp, err := s.expenseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := req.date(s.cfg.Location())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.expenseSvc.Update(c.Request.Context(), c.Param("id"), expensedomain.UpdateExpenseRequest{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	if err := s.expenseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
