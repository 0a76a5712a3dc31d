package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver receives one observation per finished HTTP request.
// *telemetry.Metrics implements it.
type RequestObserver interface {
	RequestStarted() func()
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics records request counts, durations and in-flight requests,
// labelled by route pattern so path parameters don't explode cardinality.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := observer.RequestStarted()
		defer done()

		c.Next()

		observer.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
