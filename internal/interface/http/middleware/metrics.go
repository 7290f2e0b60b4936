package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/catalog/pkg/metrics"
)

// Metrics HTTP指标中间件
// path使用路由模板（/api/v1/books/:id），避免ID导致标签基数膨胀；未匹配路由记为unmatched
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.TrackInProgress()
		defer done()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
