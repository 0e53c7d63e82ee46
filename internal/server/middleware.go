package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/giftgenius/giftgenius-api/internal/logger"
)

// RequestLogging logs one line per request with method, path, status and
// duration.
func RequestLogging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
