package model

import "github.com/goccy/go-json"

// ========== Eventbrite API（GET /v3/events/search/） ==========

// EventbriteResponse 根响应
type EventbriteResponse struct {
	Events []json.RawMessage `json:"events"`
}

// EventbriteEvent 单条事件（场馆需额外请求，价格通常不公开）
type EventbriteEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	URL   string `json:"url"`
	Start struct {
		UTC      string `json:"utc"`
		Timezone string `json:"timezone"`
	} `json:"start"`
}
