package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meda/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Uploads
// larger than maxBytes are rejected before reaching the handlers.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		// streaming requests without Content-Length still get capped
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
