package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightclass/roster/internal/pkg/logger"
)

// RequestLogger logs every request with method, path, status and duration
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("clientIp", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
