// Package metrics 基于Prometheus的指标收集
//
// 指标分为三组：
//   - HTTP：请求数、耗时、处理中的请求数
//   - 目录写入：按资源族、操作、结果统计的写入次数与耗时
//   - 通知链路：通知发送结果、熔断器状态、消息队列收发
//
// 使用方式：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// 未调用InitMetrics时，Record*系列函数不做任何事（测试中无需初始化）
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// once 防止重复注册
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// CatalogWritesTotal 目录写入总数
	// 标签：family（book/vehicle）、op（create/update/delete）、
	// result（created/updated/deleted/invalid/key_exists/version_outdated/.../error）
	CatalogWritesTotal *prometheus.CounterVec

	// CatalogWriteDuration 目录写入耗时
	CatalogWriteDuration *prometheus.HistogramVec

	// NotificationsTotal 通知发送总数
	// 标签：driver（log/mq/smtp）、result（success/failure）
	NotificationsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册所有指标到默认Registry，可重复调用
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CatalogWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_writes_total",
			Help: "目录写入总数",
		},
		[]string{"family", "op", "result"},
	)

	CatalogWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "catalog_write_duration_seconds",
			Help: "目录写入耗时（秒）",
			// 写入包含唯一性查询和一次事务，通常在10ms量级
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"family", "op"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "通知发送总数",
		},
		[]string{"driver", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// =========================================
// 记录函数（未初始化时为空操作）
// =========================================

// RecordHTTPRequest 记录一次HTTP请求
func RecordHTTPRequest(method, path, status string, elapsed time.Duration) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// TrackInProgress 递增处理中的请求数，返回的函数用于递减
func TrackInProgress() func() {
	if HTTPRequestsInProgress == nil {
		return func() {}
	}
	HTTPRequestsInProgress.Inc()
	return HTTPRequestsInProgress.Dec
}

// RecordWrite 记录一次目录写入
func RecordWrite(family, op, result string, elapsed time.Duration) {
	if CatalogWritesTotal == nil {
		return
	}
	CatalogWritesTotal.WithLabelValues(family, op, result).Inc()
	CatalogWriteDuration.WithLabelValues(family, op).Observe(elapsed.Seconds())
}

// RecordNotification 记录一次通知发送
func RecordNotification(driver string, err error) {
	if NotificationsTotal == nil {
		return
	}
	NotificationsTotal.WithLabelValues(driver, resultLabel(err)).Inc()
}

// SetBreakerState 更新熔断器状态
func SetBreakerState(name string, state int) {
	if CircuitBreakerState == nil {
		return
	}
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordBreakerRequest 记录熔断器请求结果（success/failure/rejected）
func RecordBreakerRequest(name, result string) {
	if CircuitBreakerRequests == nil {
		return
	}
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordPublish 记录一次消息发布
func RecordPublish(exchange, routingKey string) {
	if MessagesPublishedTotal == nil {
		return
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}

// RecordConsume 记录一次消息消费
func RecordConsume(queue string, err error, elapsed time.Duration) {
	if MessagesConsumedTotal == nil {
		return
	}
	MessagesConsumedTotal.WithLabelValues(queue, resultLabel(err)).Inc()
	MessageProcessingDuration.Observe(elapsed.Seconds())
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
