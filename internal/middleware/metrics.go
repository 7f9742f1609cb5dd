package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/service"
)

// unmatchedRoute labels requests no route matched. Raw paths would put signed
// download tokens and probe URLs into metric labels.
const unmatchedRoute = "unmatched"

// Metrics records the duration and status of every request by route template.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
