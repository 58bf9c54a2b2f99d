package observability

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PrometheusHandler adapts the metrics http.Handler to gin.
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	if handler == nil {
		return func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"statusCode": http.StatusServiceUnavailable,
				"error":      "Service Unavailable",
				"message":    "metrics handler not initialized",
				"success":    false,
			})
		}
	}
	return gin.WrapH(handler)
}
