package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lexid/internal/infrastructure/auth"
	"lexid/internal/shared/constants"
	"lexid/internal/shared/logger"
	"lexid/internal/shared/utils"
)

// tokenVerifier is the slice of auth.JWTService the middleware needs.
type tokenVerifier interface {
	Verify(tokenString string, expectedType auth.TokenType) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwtService tokenVerifier
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService tokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth rejects requests without a valid access token. Refresh
// tokens are not accepted here even though they verify under the same
// key.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1], auth.TokenTypeAccess)
		if err != nil {
			m.logger.Warnw("failed to verify access token", "error", err, "ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAccountID, claims.AccountID)
		c.Set(constants.ContextKeyUsername, claims.Username)

		c.Next()
	}
}
