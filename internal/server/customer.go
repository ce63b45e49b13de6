package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/internal/period"
)

type listCustomersQuery struct {
	Status        string `form:"status"`
	PaymentTarget string `form:"payment_target"`
	Search        string `form:"q"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query listCustomersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	selected, err := s.optionalPeriod(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Status:        strings.TrimSpace(query.Status),
		PaymentTarget: strings.TrimSpace(query.PaymentTarget),
		Search:        strings.TrimSpace(query.Search),
		Period:        selected,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerdomain.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) MarkCustomerUnpaid(c *gin.Context) {
	s.setCustomerStatus(c, customerdomain.StatusUnpaid)
}

func (s *Server) ActivateCustomer(c *gin.Context) {
	s.setCustomerStatus(c, customerdomain.StatusActive)
}

func (s *Server) DeactivateCustomer(c *gin.Context) {
	s.setCustomerStatus(c, customerdomain.StatusOff)
}

func (s *Server) setCustomerStatus(c *gin.Context, status customerdomain.Status) {
	resp, err := s.customerSvc.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// optionalPeriod returns nil when the request carries no month filter.
func (s *Server) optionalPeriod(c *gin.Context) (*period.Period, error) {
	if !hasMonthQuery(c) {
		return nil, nil
	}
	year, month, err := parseMonthQuery(c)
	if err != nil {
		return nil, err
	}
	selected, err := period.Resolve(year, month, s.clock.Now(), s.cfg.Location())
	if err != nil {
		return nil, err
	}
	return &selected, nil
}
