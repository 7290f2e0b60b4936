package notification

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/pkg/circuitbreaker"
)

// NewSender 按配置创建通知驱动并包上熔断器
// mq驱动需要publisher，其余驱动可传nil
func NewSender(cfg *config.Config, publisher Publisher, logger logrus.FieldLogger) (catalog.Notifier, error) {
	var sender catalog.Notifier
	switch driver := cfg.Notification.Driver; driver {
	case config.NotifyLog:
		sender = NewLogSender(logger)
	case config.NotifyMQ:
		if publisher == nil {
			return nil, fmt.Errorf("通知驱动mq需要消息发布者")
		}
		sender = NewMQSender(publisher, cfg.MQ.RoutingKey)
	case config.NotifySMTP:
		ms, err := NewMailSender(cfg.Mail)
		if err != nil {
			return nil, err
		}
		sender = ms
	default:
		return nil, fmt.Errorf("不支持的通知驱动: %s", driver)
	}

	return NewBreakerSender(cfg.Notification.Driver, sender, BreakerSettings(cfg.Notification)), nil
}

// BreakerSettings 由配置生成熔断器参数
func BreakerSettings(cfg config.NotificationConfig) circuitbreaker.Settings {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 1
	}
	return circuitbreaker.Settings{
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
	}
}
