package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	trxdomain "github.com/smscentra/portal/internal/transaction/domain"
	trxrepo "github.com/smscentra/portal/internal/transaction/repository"
	"github.com/smscentra/portal/pkg/db/pagination"
)

func (s *Server) AdminTransactions(c *gin.Context) {
	var clientID snowflake.ID
	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		parsed, err := parseClientID(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		clientID = parsed
	}
	s.transactions(c, clientID)
}

func (s *Server) ClientTransactions(c *gin.Context) {
	s.transactions(c, currentUser(c).ID)
}

func (s *Server) transactions(c *gin.Context, userID snowflake.ID) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if page.PageSize <= 0 || page.PageSize > 500 {
		page.PageSize = 50
	}

	filter := trxrepo.ListFilter{
		UserID: userID,
		Limit:  page.PageSize + 1,
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			AbortWithError(c, newValidationError("page_token", "invalid_page_token", "page_token is not a valid cursor"))
			return
		}
		beforeID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			AbortWithError(c, newValidationError("page_token", "invalid_page_token", "page_token is not a valid cursor"))
			return
		}
		filter.BeforeID = beforeID
	}

	list, err := s.trxRepo.List(c.Request.Context(), s.db, filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pageInfo := pagination.BuildCursorPageInfo(list, page.PageSize, func(trx trxdomain.Transaction) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: trx.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if len(list) > page.PageSize {
		list = list[:page.PageSize]
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": list,
		"page_info":    pageInfo,
	})
}
