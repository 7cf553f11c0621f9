package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver receives one observation per served request
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// HTTPMetrics records method, matched route, status and latency for each request.
// Requests whose path is in skip (e.g. the scrape endpoint itself) are not observed.
func HTTPMetrics(observer RequestObserver, skip ...string) gin.HandlerFunc {
	if observer == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// FullPath is the route pattern, so /orders/:id stays one series
		observer.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
