package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求标识的传递头
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware 访问日志中间件
// 没有携带请求标识的请求会生成一个并回写响应头，
// 认证后的 user_id 一并写入日志行
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		userID := c.GetString("user_id")
		if userID == "" {
			userID = "-"
		}

		log.Printf("%s %s | status=%d latency=%v user=%s request_id=%s",
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			userID,
			requestID,
		)
	}
}
