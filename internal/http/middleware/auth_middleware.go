package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/tripauth/domain"
	"github.com/you/tripauth/internal/http/cookies"
)

// SessionMiddleware verifies the session token cookies on each request.
//
// A present access token is terminal either way: valid continues, invalid is
// rejected without falling through to the refresh token. Refresh handling
// only runs when no access cookie arrived at all, and silently mints a new
// access token after confirming the user still exists.
func SessionMiddleware(tokenSvc domain.TokenService, authSvc domain.AuthService, cw cookies.Writer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, accessErr := c.Cookie(cookies.AccessToken)
		if accessErr == nil && accessToken != "" {
			claims, err := tokenSvc.ValidateAccessToken(accessToken)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				c.Abort()
				return
			}
			SetIdentity(c, Identity{UserID: claims.UserID})
			c.Next()
			return
		}

		refreshToken, refreshErr := c.Cookie(cookies.RefreshToken)
		if refreshErr != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		newAccess, userID, err := authSvc.Refresh(c.Request.Context(), refreshToken)
		if err != nil {
			cw.Clear(c)
			switch {
			case errors.Is(err, domain.ErrTokenInvalid):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			case errors.Is(err, domain.ErrUserNotFound):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			default:
				logger.Error("session refresh failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Session verification failed"})
			}
			c.Abort()
			return
		}

		cw.SetAccess(c, newAccess)
		SetIdentity(c, Identity{UserID: userID})
		c.Next()
	}
}
