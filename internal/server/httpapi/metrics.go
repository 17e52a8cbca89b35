package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "campuslink_http_requests_total",
		Help: "HTTP requests processed, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// countRequests increments the request counter after the handler chain has
// produced a status. Unmatched paths are labelled as such to keep the route
// cardinality bounded.
func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
