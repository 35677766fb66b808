package model

import "time"

// SourceType 数据源类型枚举
type SourceType string

const (
	SourceTicketmaster SourceType = "ticketmaster"
	SourceSeatGeek     SourceType = "seatgeek"
	SourceEventbrite   SourceType = "eventbrite"
)

// SearchQuery 一次检索请求（所有数据源共用）
type SearchQuery struct {
	Query     string
	Location  string
	StartDate *time.Time // 为空时由合并服务补默认窗口
	EndDate   *time.Time
}
