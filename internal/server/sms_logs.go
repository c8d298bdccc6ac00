package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	smsdomain "github.com/smscentra/portal/internal/sms/domain"
)

func (s *Server) AdminSmsLogs(c *gin.Context) {
	var clientID snowflake.ID
	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		parsed, err := parseClientID(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		clientID = parsed
	}
	s.smsLogs(c, clientID)
}

func (s *Server) ClientSmsLogs(c *gin.Context) {
	s.smsLogs(c, currentUser(c).ID)
}

func (s *Server) smsLogs(c *gin.Context, userID snowflake.ID) {
	opts := smsdomain.ListOptions{UserID: userID}

	rawMonth := strings.TrimSpace(c.Query("month"))
	rawYear := strings.TrimSpace(c.Query("year"))
	if rawMonth != "" || rawYear != "" {
		period, err := s.periodQuery(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		opts.Month = period.Month
		opts.Year = period.Year
	}

	limit, err := parseOptionalInt(c.Query("limit"), 0)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	opts.Limit = limit

	records, err := s.smsSvc.List(c.Request.Context(), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
