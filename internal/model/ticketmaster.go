package model

import "github.com/goccy/go-json"

// ========== Ticketmaster Discovery API（GET /discovery/v2/events.json） ==========

// TicketmasterResponse 根响应；events 逐条解码，单条异常不影响整批
type TicketmasterResponse struct {
	Embedded struct {
		Events []json.RawMessage `json:"events"`
	} `json:"_embedded"`
}

// TicketmasterEvent 单条事件
type TicketmasterEvent struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	URL         string                   `json:"url"`
	PriceRanges []TicketmasterPriceRange `json:"priceRanges"`
	Dates       TicketmasterDates        `json:"dates"`
	Embedded    struct {
		Venues []TicketmasterVenue `json:"venues"`
	} `json:"_embedded"`
}

type TicketmasterPriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type TicketmasterDates struct {
	Start struct {
		DateTime  string `json:"dateTime"`  // ISO-8601 instant
		LocalDate string `json:"localDate"` // 仅日期，按 UTC 零点处理
	} `json:"start"`
	Timezone string `json:"timezone"`
}

type TicketmasterVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	Capacity *int `json:"capacity"`
}
