package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records one handled request
type RequestObserver interface {
	Observe(method, path, code string, elapsed time.Duration)
}

// Metrics reports every request to obs, labelled by route template so
// that ids in the path do not create new series. Unmatched routes are
// reported as "unmatched".
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		obs.Observe(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
