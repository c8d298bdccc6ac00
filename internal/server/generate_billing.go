package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	smsdomain "github.com/smscentra/portal/internal/sms/domain"
)

type GenerateBillingRequest struct {
	ClientID           string  `json:"client_id"`
	Count              int     `json:"count"`
	UnitPrice          int64   `json:"unit_price"`
	StartOffsetMinutes int     `json:"start_offset_minutes"`
	EndOffsetMinutes   int     `json:"end_offset_minutes"`
	FailedPercentage   float64 `json:"failed_percentage"`

	Percentages *struct {
		Delivered   float64 `json:"delivered"`
		Undelivered float64 `json:"undelivered"`
		Failed      float64 `json:"failed"`
	} `json:"percentages,omitempty"`
}

func (s *Server) GenerateBilling(c *gin.Context) {
	var req GenerateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	genReq := smsdomain.GenerateRequest{
		ClientID:           clientID,
		Count:              req.Count,
		UnitPrice:          req.UnitPrice,
		StartOffsetMinutes: req.StartOffsetMinutes,
		EndOffsetMinutes:   req.EndOffsetMinutes,
		FailedPercentage:   req.FailedPercentage,
	}
	if req.Percentages != nil {
		genReq.Percentages = &smsdomain.Percentages{
			Delivered:   req.Percentages.Delivered,
			Undelivered: req.Percentages.Undelivered,
			Failed:      req.Percentages.Failed,
		}
	}

	summary, err := s.smsSvc.Generate(c.Request.Context(), genReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
