package notification

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
)

// dialer *gomail.Dialer 中用到的方法
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailSender 通过SMTP发送纯文本邮件
type MailSender struct {
	dialer dialer
	from   string
	to     []string
}

// NewMailSender 创建邮件通知
func NewMailSender(cfg config.MailConfig) (*MailSender, error) {
	if cfg.Host == "" || cfg.From == "" || len(cfg.To) == 0 {
		return nil, errors.New("邮件配置不完整: host、from、to必填")
	}
	return &MailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}, nil
}

func (s *MailSender) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
