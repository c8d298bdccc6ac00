package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smscentra/portal/internal/payment/domain"
)

type CreateTopUpRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type PaymentStatusRequest struct {
	ReferenceID string `json:"reference_id"`
}

type CheckPaymentStatusRequest struct {
	Query string `json:"query"`
}

func (s *Server) CreateTopUp(c *gin.Context) {
	var req CreateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.paymentSvc.CreateTopUp(c.Request.Context(), currentUser(c).ID, req.Amount, req.Description)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) PaymentStatus(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	trx, err := s.paymentSvc.MockStatus(c.Request.Context(), strings.TrimSpace(req.ReferenceID), actorFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, trx)
}

func (s *Server) CheckPaymentStatus(c *gin.Context) {
	var req CheckPaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	trx, err := s.paymentSvc.CheckStatus(c.Request.Context(), strings.TrimSpace(req.Query), actorFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, trx)
}

func (s *Server) PaymentNotify(c *gin.Context) {
	var payload paymentdomain.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	payload.RawSignature = c.GetHeader("signature")

	trx, err := s.paymentSvc.ApplyWebhook(c.Request.Context(), payload)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "transaction_status": trx.Status})
}

func (s *Server) BinLookup(c *gin.Context) {
	digits := strings.TrimSpace(c.Query("bin"))
	info, err := s.paymentSvc.BinLookup(c.Request.Context(), digits)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
