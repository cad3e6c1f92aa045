package middleware

import (
	"net/http"

	"vault-dashboard/pkg/apperror"
	"vault-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodySize rejects bodies above maxBytes. A declared Content-Length is
// checked up front; chunked bodies fail on read past the limit.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, apperror.ErrBodyTooLarge())
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
