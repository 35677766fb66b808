package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bagel786/TickTracker2.0/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 100

// EventRepository 事件、历史价格、用户上报与预测留档的仓储接口
type EventRepository interface {
	// UpsertEvents 仅插入库中不存在的事件（按 id），已存在的保持不变
	UpsertEvents(ctx context.Context, events []*model.CanonicalEvent) error
	// GetEventByID 不存在时返回 model.ErrEventNotFound
	GetEventByID(ctx context.Context, id string) (*model.CanonicalEvent, error)
	// ListPriceHistory 按时间升序返回事件的历史价格
	ListPriceHistory(ctx context.Context, eventID string) ([]*model.PriceHistory, error)
	// CreatePriceReport 保存用户上报价格（ID 为空时自动生成）
	CreatePriceReport(ctx context.Context, report *model.UserPriceReport) error
	// CreatePredictionLog 保存一次预测输出
	CreatePredictionLog(ctx context.Context, log *model.PredictionLog) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建 EventRepository 实例
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) UpsertEvents(ctx context.Context, events []*model.CanonicalEvent) error {
	if len(events) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		CreateInBatches(events, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("保存事件失败: %w", err)
	}
	return nil
}

func (r *eventRepository) GetEventByID(ctx context.Context, id string) (*model.CanonicalEvent, error) {
	var e model.CanonicalEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrEventNotFound
		}
		return nil, fmt.Errorf("查询事件失败: %w", err)
	}
	return &e, nil
}

func (r *eventRepository) ListPriceHistory(ctx context.Context, eventID string) ([]*model.PriceHistory, error) {
	var list []*model.PriceHistory
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("timestamp ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询历史价格失败: %w", err)
	}
	return list, nil
}

func (r *eventRepository) CreatePriceReport(ctx context.Context, report *model.UserPriceReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("保存价格上报失败: %w", err)
	}
	return nil
}

func (r *eventRepository) CreatePredictionLog(ctx context.Context, log *model.PredictionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("保存预测记录失败: %w", err)
	}
	return nil
}
