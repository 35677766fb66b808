package model

import (
	"time"

	"gorm.io/datatypes"
)

// PriceHistory 事件历史价格点
type PriceHistory struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	EventID   string    `gorm:"column:event_id;type:varchar(128);index;not null;comment:关联事件ID" json:"event_id"`
	Price     float64   `gorm:"column:price;type:numeric(12,2);not null;comment:价格" json:"price"`
	Timestamp time.Time `gorm:"column:timestamp;type:timestamptz;default:now();comment:采集时间" json:"timestamp"`
}

// UserPriceReport 用户上报的实际成交/挂牌价格
type UserPriceReport struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(64);comment:上报ID" json:"id"`
	EventID    string    `gorm:"column:event_id;type:varchar(128);index;not null;comment:关联事件ID" json:"event_id"`
	Price      float64   `gorm:"column:price;type:numeric(12,2);not null;comment:上报价格" json:"price"`
	SourceURL  *string   `gorm:"column:source_url;type:text;comment:价格来源链接" json:"source_url,omitempty"`
	IsVerified bool      `gorm:"column:is_verified;type:boolean;default:false;comment:是否核验" json:"is_verified"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;default:now();comment:创建时间" json:"created_at"`
}

// PredictionLog 每次对外输出的价格预测留档（透明度页面用）
type PredictionLog struct {
	ID             string         `gorm:"column:id;primaryKey;type:varchar(64);comment:记录ID"`
	EventID        string         `gorm:"column:event_id;type:varchar(128);index;not null;comment:关联事件ID"`
	PredLow        float64        `gorm:"column:pred_low;type:numeric(12,2);comment:预测低价"`
	PredMid        float64        `gorm:"column:pred_mid;type:numeric(12,2);comment:预测中位价"`
	PredHigh       float64        `gorm:"column:pred_high;type:numeric(12,2);comment:预测高价"`
	Confidence     float64        `gorm:"column:confidence;type:numeric(5,1);comment:置信度(0-100)"`
	Source         string         `gorm:"column:source;type:varchar(32);comment:heuristic_only/ml+heuristic"`
	Recommendation string         `gorm:"column:recommendation;type:varchar(16);comment:购买建议"`
	Components     datatypes.JSON `gorm:"column:components;type:jsonb;comment:启发式各乘数明细"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamptz;default:now();comment:创建时间"`
}

func (PriceHistory) TableName() string    { return "price_history" }
func (UserPriceReport) TableName() string { return "user_price_reports" }
func (PredictionLog) TableName() string   { return "prediction_logs" }
