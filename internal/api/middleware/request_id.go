package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rescue-roster/pkg/response"
)

const (
	requestIDHeader = "X-Request-ID"
	// 外部传入的 ID 超过该长度时重新生成
	requestIDMaxLen = 64
)

// RequestID 为每个请求分配追踪 ID，优先沿用上游网关传入的 X-Request-ID
// ID 同时写入响应头与统一响应体的 request_id 字段
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}

		c.Set(response.RequestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
