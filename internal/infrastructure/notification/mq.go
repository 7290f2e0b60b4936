package notification

import (
	"context"
	"time"
)

// Publisher 消息发布接口（*mq.Publisher 实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// MQSender 把通知发布到消息队列
type MQSender struct {
	publisher  Publisher
	routingKey string
	now        func() time.Time
}

// NewMQSender 创建消息队列通知，routingKey为空时使用默认路由键
func NewMQSender(publisher Publisher, routingKey string) *MQSender {
	if routingKey == "" {
		routingKey = RoutingKey
	}
	return &MQSender{
		publisher:  publisher,
		routingKey: routingKey,
		now:        time.Now,
	}
}

func (s *MQSender) Send(ctx context.Context, subject, body string) error {
	return s.publisher.Publish(ctx, s.routingKey, Message{
		Subject: subject,
		Body:    body,
		SentAt:  s.now().UTC(),
	})
}
