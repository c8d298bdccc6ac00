package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ClientSummaryInvoice(c *gin.Context) {
	period, err := s.periodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.invoiceSvc.RenderPDF(c.Request.Context(), currentUser(c).ID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", period.Ref())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
