package notification

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/pkg/circuitbreaker"
	"github.com/xiebiao/catalog/pkg/metrics"
)

// BreakerSender 熔断保护的通知发送
// 状态变化与每次调用结果上报Prometheus
type BreakerSender struct {
	driver  string
	name    string
	next    catalog.Notifier
	breaker *circuitbreaker.CircuitBreaker
}

// NewBreakerSender 熔断器命名为 notification.<driver>
func NewBreakerSender(driver string, next catalog.Notifier, st circuitbreaker.Settings) *BreakerSender {
	name := "notification." + driver
	onChange := st.OnStateChange
	st.OnStateChange = func(name string, from, to circuitbreaker.State) {
		metrics.SetBreakerState(name, int(to))
		logrus.WithFields(logrus.Fields{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		}).Warn("熔断器状态变化")
		if onChange != nil {
			onChange(name, from, to)
		}
	}

	metrics.SetBreakerState(name, int(circuitbreaker.StateClosed))
	return &BreakerSender{
		driver:  driver,
		name:    name,
		next:    next,
		breaker: circuitbreaker.New(name, st),
	}
}

func (s *BreakerSender) Send(ctx context.Context, subject, body string) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.next.Send(ctx, subject, body)
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		metrics.RecordBreakerRequest(s.name, "rejected")
	case err != nil:
		metrics.RecordBreakerRequest(s.name, "failure")
	default:
		metrics.RecordBreakerRequest(s.name, "success")
	}
	metrics.RecordNotification(s.driver, err)
	return err
}

// State 当前熔断状态
func (s *BreakerSender) State() circuitbreaker.State {
	return s.breaker.State()
}
