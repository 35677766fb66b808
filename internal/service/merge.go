package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/clock"
	"github.com/bagel786/TickTracker2.0/internal/dedup"
	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/metrics"
	"github.com/bagel786/TickTracker2.0/internal/model"
	"github.com/bagel786/TickTracker2.0/internal/pricing"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAdapterTimeout = 10 * time.Second
	defaultSearchWindow   = 18 * 30 * 24 * time.Hour
)

// EventMerger 并发拉取各数据源 → 排序去重 → 为无价格事件补启发式估价
type EventMerger struct {
	adapters  []interfaces.SourceAdapter
	deduper   *dedup.Deduper
	heuristic *pricing.Heuristic
	clock     clock.Clock
	timeout   time.Duration
	window    time.Duration
	logger    *logrus.Logger
}

// MergerOption 可选配置
type MergerOption func(*EventMerger)

// WithAdapterTimeout 单个数据源调用超时
func WithAdapterTimeout(d time.Duration) MergerOption {
	return func(m *EventMerger) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithSearchWindow 未指定结束日期时的默认检索窗口
func WithSearchWindow(d time.Duration) MergerOption {
	return func(m *EventMerger) {
		if d > 0 {
			m.window = d
		}
	}
}

func WithDeduper(d *dedup.Deduper) MergerOption {
	return func(m *EventMerger) {
		if d != nil {
			m.deduper = d
		}
	}
}

func NewEventMerger(adapters []interfaces.SourceAdapter, heuristic *pricing.Heuristic, c clock.Clock, logger *logrus.Logger, opts ...MergerOption) *EventMerger {
	if c == nil {
		c = clock.NewSystem()
	}
	m := &EventMerger{
		adapters:  adapters,
		deduper:   dedup.New(nil),
		heuristic: heuristic,
		clock:     c,
		timeout:   defaultAdapterTimeout,
		window:    defaultSearchWindow,
		logger:    logger,
	}
	if m.heuristic == nil {
		m.heuristic = pricing.NewHeuristic(c)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MergeAndDedupe 单个数据源失败只影响自身结果，不会向调用方返回错误
func (m *EventMerger) MergeAndDedupe(ctx context.Context, q model.SearchQuery) []*model.CanonicalEvent {
	q = m.withDefaultWindow(q)

	// 每个 goroutine 只写自己的槽位，合并时按注册顺序拼接
	results := make([][]*model.CanonicalEvent, len(m.adapters))
	var g errgroup.Group
	for i, a := range m.adapters {
		g.Go(func() error {
			results[i] = m.fetchOne(ctx, a, q)
			return nil
		})
	}
	_ = g.Wait()

	var candidates []*model.CanonicalEvent
	for _, r := range results {
		candidates = append(candidates, r...)
	}

	kept, dropped := m.deduper.Dedupe(candidates)
	metrics.DuplicatesDropped.Add(float64(dropped))

	estimated := 0
	for _, e := range kept {
		if e.HasPrice() {
			continue
		}
		h := m.heuristic.Estimate(e)
		e.MarkEstimated(h.Low, h.High)
		estimated++
	}
	metrics.EstimatedPrices.Add(float64(estimated))

	m.logger.WithFields(logrus.Fields{
		"query":      q.Query,
		"location":   q.Location,
		"candidates": len(candidates),
		"kept":       len(kept),
		"dropped":    dropped,
		"estimated":  estimated,
	}).Info("多数据源事件合并完成")

	if kept == nil {
		kept = []*model.CanonicalEvent{}
	}
	return kept
}

// fetchOne 调用单个数据源；错误、超时、panic 均降级为空结果
func (m *EventMerger) fetchOne(ctx context.Context, a interfaces.SourceAdapter, q model.SearchQuery) (events []*model.CanonicalEvent) {
	source := string(a.GetName())
	start := time.Now()
	logger := m.logger.WithField("source", source)

	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(logrus.Fields{
				"panic":   fmt.Sprint(r),
				"elapsed": time.Since(start).String(),
			}).Error("数据源调用panic，按空结果处理")
			metrics.SourceFetchTotal.WithLabelValues(source, "panic").Inc()
			events = nil
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	events, err := a.FetchEvents(callCtx, q)
	elapsed := time.Since(start)
	metrics.SourceFetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if err != nil {
		logger.WithError(err).WithField("elapsed", elapsed.String()).Warn("数据源调用失败，按空结果处理")
		metrics.SourceFetchTotal.WithLabelValues(source, "failure").Inc()
		return nil
	}

	metrics.SourceFetchTotal.WithLabelValues(source, "success").Inc()
	metrics.SourceEventsFetched.WithLabelValues(source).Add(float64(len(events)))
	logger.WithFields(logrus.Fields{
		"count":   len(events),
		"elapsed": elapsed.String(),
	}).Debug("数据源调用完成")
	return events
}

// withDefaultWindow 开始时间缺省为现在，结束时间缺省为开始后 18 个月
func (m *EventMerger) withDefaultWindow(q model.SearchQuery) model.SearchQuery {
	if q.StartDate == nil {
		now := m.clock.Now()
		q.StartDate = &now
	}
	if q.EndDate == nil {
		end := q.StartDate.Add(m.window)
		q.EndDate = &end
	}
	return q
}
