package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexid/internal/infrastructure/ratelimit"
	"lexid/internal/shared/logger"
	"lexid/internal/shared/utils"
)

// IPRateLimiter throttles credential endpoints per client IP. When the
// backing store is unreachable the limiter degrades open so an outage
// does not lock everyone out.
type IPRateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.LimitConfig
	logger  logger.Interface
}

func NewIPRateLimiter(limiter ratelimit.RateLimiter, config ratelimit.LimitConfig, log logger.Interface) *IPRateLimiter {
	return &IPRateLimiter{
		limiter: limiter,
		config:  config,
		logger:  log,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *IPRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ip:%s", c.ClientIP())

		allowed, err := rl.limiter.Allow(key, rl.config)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err, "key", key)
			c.Next()
			return
		}

		if !allowed {
			rl.logger.Warnw("rate limit exceeded", "key", key, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
