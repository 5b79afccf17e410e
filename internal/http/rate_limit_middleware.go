package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-diet/internal/service"
)

// RateLimitMiddleware limita peticiones por sesión, o por IP cuando la
// petición aún no trae cookie.
func RateLimitMiddleware(limiter service.RequestRateLimiter, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key, _ := c.Cookie(cookieName)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
