package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/tripauth/domain"
	"github.com/you/tripauth/internal/http/cookies"
)

// AuthMW bundles the dependencies of the session middleware
type AuthMW struct {
	tokenSvc domain.TokenService
	authSvc  domain.AuthService
	cookies  cookies.Writer
	logger   *zap.Logger
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, authSvc domain.AuthService, cw cookies.Writer, logger *zap.Logger) *AuthMW {
	return &AuthMW{
		tokenSvc: tokenSvc,
		authSvc:  authSvc,
		cookies:  cw,
		logger:   logger,
	}
}

// WithSession returns the cookie-based session middleware
func (mw *AuthMW) WithSession() gin.HandlerFunc {
	return SessionMiddleware(mw.tokenSvc, mw.authSvc, mw.cookies, mw.logger)
}
