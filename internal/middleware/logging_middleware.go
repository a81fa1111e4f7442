package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
)

const ContextLoggerKey = "logger"

// RequestLogger tags every request with an ID, stores a request-scoped
// logger in the context, and emits one line per request with latency and
// status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		reqLogger := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(ContextLoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}

		switch {
		case status >= 500:
			reqLogger.Error("Request completed", nil, fields)
		case status >= 400:
			reqLogger.Warn("Request completed", fields)
		default:
			reqLogger.Info("Request completed", fields)
		}
	}
}

// GetLoggerFromContext returns the request-scoped logger, falling back to
// the global one outside a request.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if value, exists := c.Get(ContextLoggerKey); exists {
		if l, ok := value.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
