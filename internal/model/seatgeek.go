package model

import "github.com/goccy/go-json"

// ========== SeatGeek Platform API（GET /2/events） ==========

// SeatGeekResponse 根响应
type SeatGeekResponse struct {
	Events []json.RawMessage `json:"events"`
}

// SeatGeekEvent 单条事件；datetime_utc 不带时区后缀
type SeatGeekEvent struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	DatetimeUTC string        `json:"datetime_utc"`
	Stats       SeatGeekStats `json:"stats"`
	Venue       SeatGeekVenue `json:"venue"`
}

type SeatGeekStats struct {
	LowestPrice  *float64 `json:"lowest_price"`
	HighestPrice *float64 `json:"highest_price"`
}

type SeatGeekVenue struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Timezone string `json:"timezone"`
	Capacity *int   `json:"capacity"` // 0 表示未知
}
