package pricing

// EventType 启发式定价使用的活动类型
type EventType string

const (
	EventTypeFestival     EventType = "festival"
	EventTypeSports       EventType = "sports"
	EventTypeTheatre      EventType = "theatre"
	EventTypeSymphony     EventType = "symphony"
	EventTypeMajorConcert EventType = "major_concert"
	EventTypeDefault      EventType = "default"
)

// Components 启发式各乘数，仅用于展示/排查
type Components struct {
	BasePrice   float64   `json:"base_price"`
	CityMult    float64   `json:"city_mult"`
	TimeMult    float64   `json:"time_mult"`
	VenueMult   float64   `json:"venue_mult"`
	DowMult     float64   `json:"dow_mult"`
	DemandMult  float64   `json:"demand_mult"`
	DaysToEvent int       `json:"days_to_event"`
	EventType   EventType `json:"event_type"`
}

// HeuristicResult 启发式估价结果，Low <= Mid <= High
type HeuristicResult struct {
	Low        float64    `json:"heuristic_low"`
	High       float64    `json:"heuristic_high"`
	Mid        float64    `json:"heuristic_mid"`
	Components Components `json:"components"`
}

// Recommendation 购票建议
type Recommendation string

const (
	RecommendBuyNow  Recommendation = "Buy now"
	RecommendWait    Recommendation = "Wait"
	RecommendMonitor Recommendation = "Monitor"
)

// PredictionSource 预测来源
type PredictionSource string

const (
	SourceHeuristicOnly PredictionSource = "heuristic_only"
	SourceMLHeuristic   PredictionSource = "ml+heuristic"
)

// BlendResult 模型与启发式混合后的价格，Confidence 为 0-100
type BlendResult struct {
	Low        float64          `json:"final_low"`
	High       float64          `json:"final_high"`
	Mid        float64          `json:"final_mid"`
	Confidence float64          `json:"confidence"`
	Source     PredictionSource `json:"source"`
}

// PredictionResult 单个事件的最终价格预测
type PredictionResult struct {
	EventID          string           `json:"event_id"`
	PredLow          float64          `json:"pred_low_price"`
	PredHigh         float64          `json:"pred_high_price"`
	PredMid          float64          `json:"pred_mid_price"`
	Confidence       float64          `json:"confidence"`
	Source           PredictionSource `json:"source"`
	Recommendation   Recommendation   `json:"buy_recommendation"`
	HeuristicDetails HeuristicResult  `json:"heuristic_details"`
}
