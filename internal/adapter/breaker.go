package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/metrics"
	"github.com/bagel786/TickTracker2.0/internal/model"

	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	breakerConsecutiveFailures = 5
	breakerOpenTimeout         = time.Minute
	breakerInterval            = 5 * time.Minute
)

// BreakerAdapter 为数据源加熔断：连续失败后短时间内直接返回错误，不再请求上游
// 只做短路，不做重试
type BreakerAdapter struct {
	inner  interfaces.SourceAdapter
	cb     *gobreaker.CircuitBreaker[[]*model.CanonicalEvent]
	logger *logrus.Logger
}

func NewBreakerAdapter(inner interfaces.SourceAdapter, logger *logrus.Logger) *BreakerAdapter {
	name := string(inner.GetName())
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]*model.CanonicalEvent](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"source": name,
				"from":   from.String(),
				"to":     to.String(),
			}).Warn("数据源熔断状态变化")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerAdapter{inner: inner, cb: cb, logger: logger}
}

func (b *BreakerAdapter) GetName() model.SourceType {
	return b.inner.GetName()
}

func (b *BreakerAdapter) FetchEvents(ctx context.Context, q model.SearchQuery) ([]*model.CanonicalEvent, error) {
	events, err := b.cb.Execute(func() ([]*model.CanonicalEvent, error) {
		return b.inner.FetchEvents(ctx, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.logger.WithField("source", b.inner.GetName()).Debug("数据源处于熔断状态，跳过请求")
	}
	return events, err
}

// countsAsSuccess 调用方主动取消不算上游失败；超时（DeadlineExceeded）说明上游过慢，计为失败
func countsAsSuccess(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// State 当前熔断状态
func (b *BreakerAdapter) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
