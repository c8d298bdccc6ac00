package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) AdminDashboardStats(c *gin.Context) {
	stats, err := s.billingSvc.AdminStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) ClientDashboardStats(c *gin.Context) {
	stats, err := s.billingSvc.ClientStats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
