package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexid/internal/interfaces/http/handlers"
	"lexid/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimit      gin.HandlerFunc // applied to credential endpoints
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "lexid",
		})
	})

	v1 := engine.Group("/api/v1")

	v1.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", cfg.RateLimit, cfg.AuthHandler.Register)
		auth.POST("/login", cfg.RateLimit, cfg.AuthHandler.Login)

		auth.GET("/oauth/google", cfg.AuthHandler.OAuthLogin)
		// the provider redirects with GET; POST is accepted for clients
		// that relay the callback parameters themselves
		auth.GET("/oauth/google/callback", cfg.AuthHandler.OAuthCallback)
		auth.POST("/oauth/google/callback", cfg.AuthHandler.OAuthCallback)

		auth.POST("/refresh", cfg.RateLimit, cfg.AuthHandler.RefreshToken)
		auth.POST("/logout", cfg.AuthHandler.Logout)
	}
}
