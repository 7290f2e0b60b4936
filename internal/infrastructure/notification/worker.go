package notification

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/pkg/mq"
)

// Subscriber 消息订阅接口（*mq.Consumer 实现）
type Subscriber interface {
	Consume(ctx context.Context, handler mq.Handler) error
}

// Worker 消费通知消息并转发（通常是邮件）
type Worker struct {
	subscriber Subscriber
	sender     catalog.Notifier
	logger     logrus.FieldLogger
}

// NewWorker 创建通知转发worker
func NewWorker(subscriber Subscriber, sender catalog.Notifier, logger logrus.FieldLogger) *Worker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Worker{subscriber: subscriber, sender: sender, logger: logger}
}

// Run 阻塞直到ctx取消或订阅中断
func (w *Worker) Run(ctx context.Context) error {
	return w.subscriber.Consume(ctx, w.Handle)
}

// Handle 处理单条消息
// 无法解析的消息直接确认丢弃，发送失败返回错误由消费者重投
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		w.logger.WithError(err).WithField("body", string(body)).Error("通知消息格式错误，丢弃")
		return nil
	}

	if err := w.sender.Send(ctx, msg.Subject, msg.Body); err != nil {
		return err
	}

	w.logger.WithField("subject", msg.Subject).Info("通知已转发")
	return nil
}
