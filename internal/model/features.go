package model

// PriceFeatures 外部价格模型的单条特征记录
// 各数据源的原始价格只在事件本身来自该数据源且为观测值时填写
type PriceFeatures struct {
	DaysToEvent       int      `json:"days_to_event_at_observation"`
	VenueCapacity     *int     `json:"venue_capacity"`
	HeuristicMid      float64  `json:"heuristic_mid"`
	TicketmasterMin   *float64 `json:"ticketmaster_min_price"`
	TicketmasterMax   *float64 `json:"ticketmaster_max_price"`
	SeatGeekMin       *float64 `json:"seatgeek_min_price"`
	SeatGeekMax       *float64 `json:"seatgeek_max_price"`
	EventbriteMinTier *float64 `json:"eventbrite_min_tier_price"`
	EventType         string   `json:"event_type"`
	City              string   `json:"city"`
	Country           string   `json:"country"`
	Weekday           int      `json:"weekday"` // 周一=0
	DemandSignal      string   `json:"demand_signal"`
}
