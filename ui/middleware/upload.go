package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"surveystat/internal"
)

// LimitRequestBody caps the body of every request with a body at maxBytes.
// Handlers see an *http.MaxBytesError once a read crosses the limit.
func LimitRequestBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger logs one line per request through the application logger
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "[HTTP] %s %s -> %d (%d bytes) in %.2fms"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, c.Writer.Size(),
			float64(time.Since(start).Nanoseconds()) / 1e6}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(line, args...)
		case status >= http.StatusBadRequest:
			logger.Warn(line, args...)
		default:
			logger.Info(line, args...)
		}
	}
}
