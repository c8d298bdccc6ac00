package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type UpdateClientCurrencyRequest struct {
	ClientID string `json:"client_id"`
	Currency string `json:"currency"`
}

type ToggleClientStatusRequest struct {
	ClientID string `json:"client_id"`
	IsActive bool   `json:"is_active"`
}

func parseClientID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, newValidationError("client_id", "invalid_client_id", "client_id must be a valid identifier")
	}
	return id, nil
}

func (s *Server) ListClients(c *gin.Context) {
	clients, err := s.accounts.ListClients(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (s *Server) UpdateClientCurrency(c *gin.Context) {
	var req UpdateClientCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	profile, err := s.accounts.SetCurrency(c.Request.Context(), clientID, req.Currency)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) ToggleClientStatus(c *gin.Context) {
	var req ToggleClientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	profile, err := s.accounts.SetActive(c.Request.Context(), clientID, req.IsActive)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
