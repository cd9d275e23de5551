package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/treeshop/catalog/pkg/logger"
)

// RequestLogger logs one line per request through pkg/logger. Server errors
// log at error level, client errors at warn, the rest at info.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		e := logger.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).Round(time.Microsecond),
			"ip", c.ClientIP(),
		)
		switch {
		case status >= 500:
			e.Errorf("request failed")
		case status >= 400:
			e.Warnf("request rejected")
		default:
			e.Infof("request served")
		}
	}
}
