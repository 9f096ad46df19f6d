// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"display-service/internal/utils"
)

// RecoveryMiddleware turns a panic into a 500 response. The log entry names
// the display the request addressed.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		fields := append([]zap.Field{
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
		}, displayFields(c)...)
		logger.Error("Panic recovered", append(fields, zap.Stack("stacktrace"))...)

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	})
}

// displayFields names the display a request addresses by its port, vendor
// and id query parameters. Parameters that are absent are left out.
func displayFields(c *gin.Context) []zap.Field {
	var fields []zap.Field
	for _, p := range [...]struct{ query, key string }{
		{"port", "display_port"},
		{"vendor", "display_vendor"},
		{"id", "display_id"},
	} {
		if v := c.Query(p.query); v != "" {
			fields = append(fields, zap.String(p.key, v))
		}
	}
	return fields
}
