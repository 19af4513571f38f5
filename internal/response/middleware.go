package response

import (
	"log"

	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with an id, reusing X-Request-ID when the
// client sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Recovery turns panics into INTERNAL_ERROR envelopes
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[API] panic in %s %s (request %s): %v", c.Request.Method, c.Request.URL.Path, c.GetString(RequestIDKey), recovered)
		Abort(c, services.CodeInternal, "internal server error")
	})
}

// NotFound answers unknown routes with an envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		Abort(c, services.CodeNotFound, "route not found")
	}
}
