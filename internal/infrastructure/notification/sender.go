// Package notification 新资源通知
//
// 驱动：
//   - log:  只写日志
//   - mq:   发布到RabbitMQ，由notify-worker异步投递邮件
//   - smtp: 直接发送邮件
//
// 所有驱动都包在熔断器里，下游故障时快速失败，不拖慢写请求。
package notification

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RoutingKey 通知消息的路由键
const RoutingKey = "catalog.notification"

// Message 经消息队列传递的通知
type Message struct {
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// LogSender 把通知写到日志
type LogSender struct {
	logger logrus.FieldLogger
}

// NewLogSender 创建日志通知
func NewLogSender(logger logrus.FieldLogger) *LogSender {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, subject, body string) error {
	s.logger.WithFields(logrus.Fields{
		"subject": subject,
		"body":    body,
	}).Info("新资源通知")
	return nil
}
