package service

import (
	"context"

	"github.com/bagel786/TickTracker2.0/internal/model"
	"github.com/bagel786/TickTracker2.0/internal/repository"

	"github.com/sirupsen/logrus"
)

// EventMergerAPI 检索服务依赖的合并能力
type EventMergerAPI interface {
	MergeAndDedupe(ctx context.Context, q model.SearchQuery) []*model.CanonicalEvent
}

// PriceFilter 价格区间筛选，按 PriceLow 比较；无价格的事件不过滤
type PriceFilter struct {
	Min *float64
	Max *float64
}

// SearchService 检索 → 价格筛选 → 新事件入库
type SearchService struct {
	merger EventMergerAPI
	repo   repository.EventRepository
	logger *logrus.Logger
}

func NewSearchService(merger EventMergerAPI, repo repository.EventRepository, logger *logrus.Logger) *SearchService {
	return &SearchService{merger: merger, repo: repo, logger: logger}
}

// Search 入库失败只记录日志，仍返回检索结果
func (s *SearchService) Search(ctx context.Context, q model.SearchQuery, filter PriceFilter) []*model.CanonicalEvent {
	events := FilterByPrice(s.merger.MergeAndDedupe(ctx, q), filter)

	if s.repo != nil {
		if err := s.repo.UpsertEvents(ctx, events); err != nil {
			s.logger.WithError(err).WithField("count", len(events)).Warn("检索结果入库失败")
		}
	}
	return events
}

func FilterByPrice(events []*model.CanonicalEvent, filter PriceFilter) []*model.CanonicalEvent {
	if filter.Min == nil && filter.Max == nil {
		return events
	}
	out := make([]*model.CanonicalEvent, 0, len(events))
	for _, e := range events {
		if e.PriceLow != nil {
			if filter.Min != nil && *e.PriceLow < *filter.Min {
				continue
			}
			if filter.Max != nil && *e.PriceLow > *filter.Max {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
