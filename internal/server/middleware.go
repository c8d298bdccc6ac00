package server

import (
	"github.com/gin-gonic/gin"
	accountdomain "github.com/smscentra/portal/internal/account/domain"
	obscontext "github.com/smscentra/portal/internal/observability/context"
	paymentdomain "github.com/smscentra/portal/internal/payment/domain"
)

const contextUserKey = "current_user"

// WebAuthRequired resolves the session cookie into the current user.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, _, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Request = c.Request.WithContext(
			obscontext.WithActor(c.Request.Context(), user.Role, user.ID.String()),
		)
		c.Next()
	}
}

// AdminRequired gates admin routes. Must run after WebAuthRequired.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || user.Role != accountdomain.RoleAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// ClientRequired gates client routes and rejects deactivated profiles.
func (s *Server) ClientRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || user.Role != accountdomain.RoleClient {
			AbortWithError(c, ErrForbidden)
			return
		}
		if user.Profile == nil || !user.Profile.IsActive {
			AbortWithError(c, accountdomain.ErrInactive)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *accountdomain.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*accountdomain.User)
	if !ok {
		return nil
	}
	return user
}

func actorFrom(c *gin.Context) paymentdomain.Actor {
	user := currentUser(c)
	if user == nil {
		return paymentdomain.Actor{}
	}
	return paymentdomain.Actor{
		UserID: user.ID,
		Admin:  user.Role == accountdomain.RoleAdmin,
	}
}
