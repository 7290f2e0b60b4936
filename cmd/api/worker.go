package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/infrastructure/notification"
	"github.com/xiebiao/catalog/pkg/mq"
)

// newWorkerCommand 消费mq驱动发布的通知并通过SMTP发送
func newWorkerCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-worker",
		Short: "消费通知队列并发送邮件",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg

			mail, err := notification.NewMailSender(cfg.Mail)
			if err != nil {
				return err
			}
			sender := notification.NewBreakerSender(config.NotifySMTP, mail, notification.BreakerSettings(cfg.Notification))

			consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, cfg.MQ.Queue, []string{cfg.MQ.RoutingKey})
			if err != nil {
				return fmt.Errorf("连接消息队列失败: %w", err)
			}
			defer consumer.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logrus.WithField("queue", cfg.MQ.Queue).Info("通知worker启动")
			if err := notification.NewWorker(consumer, sender, logrus.StandardLogger()).Run(ctx); err != nil {
				return err
			}
			logrus.Info("通知worker已停止")
			return nil
		},
	}
}
