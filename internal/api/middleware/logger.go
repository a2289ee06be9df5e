package middleware

import (
	"fmt"
	"time"

	"shopdash/internal/logger"

	"github.com/gin-gonic/gin"
)

func Logger(logger *logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    logger.Writer(),
		SkipPaths: []string{"/health"},
		Formatter: func(param gin.LogFormatterParams) string {
			line := fmt.Sprintf("[%s] %s %s %d %s %s",
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency,
				param.ClientIP,
			)
			if param.ErrorMessage != "" {
				line += " " + param.ErrorMessage
			}
			return line + "\n"
		},
	})
}
