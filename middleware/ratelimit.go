package middleware

import (
	"net/http"
	"strconv"
	"time"

	"blog-api/cache"
	"blog-api/helper"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit allows perMinute requests per client IP and path. A non-positive
// limit disables it; store errors let the request through.
func RateLimit(store *cache.Store, perMinute int, h *helper.HTTPHelper, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if perMinute <= 0 || store == nil {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP() + ":" + c.Request.URL.Path
		count, err := store.Incr(c.Request.Context(), key, time.Minute)
		if err != nil {
			log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		remaining := perMinute - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > perMinute {
			log.Warn("rate limit exceeded", zap.String("ip", c.ClientIP()), zap.String("path", c.Request.URL.Path))
			h.SendError(c, http.StatusTooManyRequests, helper.CodeRateLimited, "Request was throttled. Please try again later.")
			return
		}
		c.Next()
	}
}
