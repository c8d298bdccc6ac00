package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smscentra/portal/internal/billing/domain"
	paymentdomain "github.com/smscentra/portal/internal/payment/domain"
)

type PaySummaryRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

func (s *Server) ClientSummary(c *gin.Context) {
	period, err := s.periodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.billingSvc.Summarize(c.Request.Context(), currentUser(c).ID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) PayClientSummary(c *gin.Context) {
	var req PaySummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	period, err := billingdomain.NewPeriod(req.Month, req.Year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user := currentUser(c)
	summary, err := s.billingSvc.Summarize(c.Request.Context(), user.ID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if summary.Outstanding <= 0 {
		AbortWithError(c, newValidationError("amount", "nothing_outstanding", "no outstanding balance for this period"))
		return
	}

	result, err := s.paymentSvc.CreateBillingPayment(c.Request.Context(), user.ID, period, summary.Outstanding, paymentdomain.CustomerInfo{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
