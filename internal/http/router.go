package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/tripauth/internal/http/handlers"
	"github.com/you/tripauth/internal/http/middleware"
)

// BuildRouter wires the public and protected route groups
func BuildRouter(ah *handlers.AuthHandlers, authmw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	r.POST("/register", ah.Register)
	r.POST("/login", ah.Login)
	r.POST("/verify/:verifyId", ah.Verify)

	v := r.Group("/auth").Use(authmw.WithSession())
	v.GET("/me", ah.Me)
	v.POST("/logout", ah.Logout)

	return r
}
