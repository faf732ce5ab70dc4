package middleware

import (
	"net/http"

	"Vine/pkg/context"
	"Vine/pkg/ratelimit"
	"Vine/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimit 按用户限流，未登录时按 IP
func RateLimit(registry *ratelimit.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(context.CtxUserID)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !registry.Allow(key) {
			response.Abort(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
