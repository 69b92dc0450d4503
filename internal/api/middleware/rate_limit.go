package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"navy-training/backend/pkg/redis"
	"navy-training/backend/pkg/response"
)

// RateLimit 写接口限流（Redis 滑动窗口）
// 已认证请求按用户计数，其余按客户端 IP；rdb 为 nil 或 limit<=0 时不限流
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), rateLimitKey(c), limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}

// rateLimitKey 形如 rate_limit:user:7:PATCH /api/v1/requests/:id/status
func rateLimitKey(c *gin.Context) string {
	route := c.Request.Method + " " + c.FullPath()
	if uid, ok := c.Get("user_id"); ok {
		if id, ok := uid.(int64); ok {
			return fmt.Sprintf("rate_limit:user:%d:%s", id, route)
		}
	}
	return fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), route)
}
