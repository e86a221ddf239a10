package middleware

import (
	"context"
	"net/http"
	"strings"

	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey is the gin context key holding the *session.Session.
const SessionKey = "session"

// Authenticator resolves an access token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

// RequireSession rejects requests without a valid access token. The token is
// read from the Authorization header or, for chart image links, the token
// query parameter. The session is stored on both the gin context and the
// request context.
func RequireSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if header := c.GetHeader("Authorization"); header != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing access token",
			})
			return
		}

		sess, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug("session rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired session",
			})
			return
		}

		c.Set(SessionKey, sess)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Next()
	}
}

// CurrentSession returns the session placed by RequireSession.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}
