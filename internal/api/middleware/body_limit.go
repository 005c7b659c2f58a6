package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rescue-roster/pkg/response"
)

// BodyLimit 请求体大小限制
// Content-Length 已超限时直接拒绝；分块上传由 MaxBytesReader 在读取时截断
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.PayloadTooLarge(c)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
