package middleware

import (
	"io"
	"net/http"
	"net/http/httputil"
	"runtime/debug"

	"shopdash/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a JSON 500 logged with its route.
// gin itself aborts without a response when the client has hung up.
func Recovery(logger *logger.Logger) gin.HandlerFunc {
	log := logger.Named("http")

	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		route := c.Request.Method + " " + c.Request.URL.Path

		if gin.IsDebugging() {
			dump, _ := httputil.DumpRequest(c.Request, false)
			log.Error("panic in %s: %v\n%s\n%s", route, recovered, dump, debug.Stack())
		} else {
			log.Error("panic in %s: %v", route, recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
