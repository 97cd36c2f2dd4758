package middleware

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
)

// LoggingConfig holds configuration for the logging middleware.
type LoggingConfig struct {
	Output     io.Writer
	TimeFormat string
	SkipPaths  []string
}

// LoggingMiddleware returns a logging middleware with custom configuration.
func LoggingMiddleware(config LoggingConfig) gin.HandlerFunc {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	if config.TimeFormat == "" {
		config.TimeFormat = "2006/01/02 - 15:04:05"
	}

	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			for _, path := range config.SkipPaths {
				if param.Path == path {
					return ""
				}
			}

			requestID := ""
			if param.Keys != nil {
				if id, exists := param.Keys[string(RequestIDKey)]; exists {
					if idStr, ok := id.(string); ok {
						requestID = idStr
					}
				}
			}

			return fmt.Sprintf("[%s] %s |%d| %s %s %s (%s)\n",
				param.TimeStamp.Format(config.TimeFormat),
				requestID,
				param.StatusCode,
				param.Method,
				param.Path,
				param.Latency,
				param.ClientIP,
			)
		},
		Output: config.Output,
	})
}

// DefaultLoggingMiddleware returns logging middleware with sensible defaults
// for the dashboard server.
func DefaultLoggingMiddleware() gin.HandlerFunc {
	return LoggingMiddleware(LoggingConfig{
		Output: os.Stdout,
		SkipPaths: []string{
			"/healthz",
		},
		TimeFormat: "2006/01/02 - 15:04:05",
	})
}
