package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/catalog/pkg/tracing"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// SlowRequestThreshold 超过该耗时的请求按warn记录
const SlowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 每个请求生成（或沿用上游传入的）请求ID，写入响应头，结束后输出一条结构化日志
func Logger(logger logrus.FieldLogger) gin.HandlerFunc {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			entry = entry.WithField("trace_id", traceID)
		}
		if user := GetUsername(c); user != "" {
			entry = entry.WithField("user", user)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case latency > SlowRequestThreshold:
			entry.Warn("慢请求")
		case c.Writer.Status() >= 500:
			entry.Error("请求失败")
		default:
			entry.Info("请求完成")
		}
	}
}
