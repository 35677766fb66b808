package model

import (
	"strings"
	"time"
)

const (
	UnknownVenue = "Unknown Venue"
	UnknownCity  = "Unknown City"

	// EstimatedSuffix 价格来自启发式估算时追加到 Source 之后，前端据此展示"估算"标识
	EstimatedSuffix = " (Est.)"
)

// CanonicalEvent 各数据源归一化后的统一事件（同时作为 events 表模型）
// ID 由数据源前缀 + 源侧原生 ID 组成，同一上游事件重复拉取得到相同 ID
type CanonicalEvent struct {
	ID            string    `gorm:"column:id;primaryKey;type:varchar(128)" json:"id" binding:"required"`
	Name          string    `gorm:"column:name;type:varchar(512);index;not null" json:"name" binding:"required"`
	Venue         string    `gorm:"column:venue;type:varchar(256)" json:"venue"`
	City          string    `gorm:"column:city;type:varchar(128)" json:"city"`
	VenueCapacity *int      `gorm:"column:venue_capacity;type:int" json:"venue_capacity,omitempty"`
	Date          time.Time `gorm:"column:date;type:timestamptz;not null" json:"date" binding:"required"`
	Timezone      string    `gorm:"column:timezone;type:varchar(64)" json:"timezone,omitempty"` // 源侧上报的 IANA 时区，仅展示用
	PriceLow      *float64  `gorm:"column:price_low;type:numeric(12,2)" json:"price_low"`       // nil 表示未知
	PriceHigh     *float64  `gorm:"column:price_high;type:numeric(12,2)" json:"price_high"`
	URL           string    `gorm:"column:url;type:text" json:"url"`
	Source        string    `gorm:"column:source;type:varchar(64)" json:"source"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CanonicalEvent) TableName() string { return "events" }

// HasPrice 是否已有最低价（观测值或估算值）
func (e *CanonicalEvent) HasPrice() bool {
	return e.PriceLow != nil
}

// IsEstimated 价格是否为估算
func (e *CanonicalEvent) IsEstimated() bool {
	return strings.HasSuffix(e.Source, EstimatedSuffix)
}

// OriginSource 去掉估算标记后的原始数据源
func (e *CanonicalEvent) OriginSource() SourceType {
	return SourceType(strings.TrimSuffix(e.Source, EstimatedSuffix))
}

// MarkEstimated 写入估算价格并给 Source 打上估算标记
// 数据源只给了最高价时保留该观测值，估算最低价不超过它
func (e *CanonicalEvent) MarkEstimated(low, high float64) {
	if e.PriceHigh != nil && *e.PriceHigh >= 0 {
		high = *e.PriceHigh
		if low > high {
			low = high
		}
	}
	e.PriceLow = Float64Ptr(low)
	e.PriceHigh = Float64Ptr(high)
	if !e.IsEstimated() {
		e.Source += EstimatedSuffix
	}
}

func Float64Ptr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }
