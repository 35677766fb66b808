package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/clock"
	"github.com/bagel786/TickTracker2.0/internal/model"
)

const (
	lowFactor  = 0.8
	highFactor = 1.3

	defaultBasePrice = 45.0
	bigCityMult      = 1.4
	weekendMult      = 1.1
	highDemandMult   = 1.3
)

// curveBucket [MinDays, MaxDays] 闭区间内使用 Mult
type curveBucket struct {
	MinDays int
	MaxDays int
	Mult    float64
}

// timeCurves 距开演天数 → 价格乘数，各曲线覆盖 0..365
var timeCurves = map[EventType][]curveBucket{
	EventTypeMajorConcert: {
		{90, 365, 0.9},
		{30, 89, 1.0},
		{7, 29, 1.1},
		{0, 6, 1.25},
	},
	EventTypeSports: {
		{120, 365, 1.05},
		{30, 119, 0.95},
		{7, 29, 1.05},
		{0, 6, 1.20},
	},
	EventTypeFestival: {
		{180, 365, 0.8},
		{60, 179, 1.0},
		{14, 59, 1.15},
		{0, 13, 1.35},
	},
	EventTypeTheatre: {
		{60, 365, 1.0},
		{14, 59, 1.05},
		{0, 13, 1.15},
	},
	EventTypeDefault: {
		{30, 365, 1.0},
		{7, 29, 1.05},
		{0, 6, 1.10},
	},
}

// basePriceRule 名称关键词 → 基础票价，按顺序首个命中生效
type basePriceRule struct {
	keywords []string
	price    float64
}

var basePriceRules = []basePriceRule{
	{[]string{"concert", "tour", "live"}, 85},
	{[]string{"nba", "lakers", "bulls", "knicks", "warriors"}, 120},
	{[]string{"nfl", "football"}, 150},
	{[]string{"hamilton", "wicked", "lion king", "broadway"}, 140},
	{[]string{"festival"}, 200},
	{[]string{"orchestra", "symphony"}, 60},
}

type eventTypeRule struct {
	keywords  []string
	eventType EventType
}

var eventTypeRules = []eventTypeRule{
	{[]string{"festival"}, EventTypeFestival},
	{[]string{"nba", "nfl", "mlb", "nhl", "football", "basketball", "soccer", "baseball"}, EventTypeSports},
	{[]string{"hamilton", "wicked", "lion king", "broadway", "musical", "theatre"}, EventTypeTheatre},
	{[]string{"symphony", "orchestra", "philharmonic"}, EventTypeSymphony},
	{[]string{"tour", "concert", "live"}, EventTypeMajorConcert},
}

var bigCities = map[string]struct{}{
	"new york":      {},
	"los angeles":   {},
	"chicago":       {},
	"san francisco": {},
	"las vegas":     {},
}

var highDemandKeywords = []string{"taylor swift", "beyonce", "super bowl", "finals"}

// Heuristic 确定性的多因子启发式定价
type Heuristic struct {
	clock clock.Clock
}

func NewHeuristic(c clock.Clock) *Heuristic {
	if c == nil {
		c = clock.NewSystem()
	}
	return &Heuristic{clock: c}
}

// Estimate 仅依赖名称、城市、场馆容量、开演时间与当前时间
func (h *Heuristic) Estimate(e *model.CanonicalEvent) HeuristicResult {
	nameLower := strings.ToLower(e.Name)
	eventType := ClassifyEventType(e.Name)
	days := h.DaysToEvent(e.Date)

	c := Components{
		BasePrice:   BasePrice(nameLower),
		CityMult:    CityMultiplier(e.City),
		TimeMult:    TimeMultiplier(eventType, days),
		VenueMult:   VenueMultiplier(e.VenueCapacity),
		DowMult:     DayOfWeekMultiplier(e.Date),
		DemandMult:  DemandMultiplier(e.Name),
		DaysToEvent: days,
		EventType:   eventType,
	}

	mid := Round2(c.BasePrice * c.CityMult * c.TimeMult * c.VenueMult * c.DowMult * c.DemandMult)
	return HeuristicResult{
		Low:        Round2(mid * lowFactor),
		High:       Round2(mid * highFactor),
		Mid:        mid,
		Components: c,
	}
}

// DaysToEvent 距开演的整天数（向下取整，已开演记为 0）
func (h *Heuristic) DaysToEvent(date time.Time) int {
	return DaysBetween(h.clock.Now(), date)
}

func DaysBetween(now, date time.Time) int {
	delta := date.UTC().Sub(now.UTC())
	days := int(math.Floor(delta.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func ClassifyEventType(name string) EventType {
	nameLower := strings.ToLower(name)
	for _, rule := range eventTypeRules {
		if containsAny(nameLower, rule.keywords) {
			return rule.eventType
		}
	}
	return EventTypeDefault
}

func BasePrice(nameLower string) float64 {
	for _, rule := range basePriceRules {
		if containsAny(nameLower, rule.keywords) {
			return rule.price
		}
	}
	return defaultBasePrice
}

// TimeMultiplier 未定义曲线的类型（如 symphony）使用默认曲线；不落在任何区间时为 1.0
func TimeMultiplier(eventType EventType, days int) float64 {
	curve, ok := timeCurves[eventType]
	if !ok {
		curve = timeCurves[EventTypeDefault]
	}
	for _, b := range curve {
		if days >= b.MinDays && days <= b.MaxDays {
			return b.Mult
		}
	}
	return 1.0
}

// CityMultiplier 城市名完全匹配（忽略大小写）
func CityMultiplier(city string) float64 {
	if _, ok := bigCities[strings.ToLower(strings.TrimSpace(city))]; ok {
		return bigCityMult
	}
	return 1.0
}

func VenueMultiplier(capacity *int) float64 {
	switch {
	case capacity == nil:
		return 1.0
	case *capacity < 1000:
		return 0.9
	case *capacity < 5000:
		return 1.0
	case *capacity < 20000:
		return 1.1
	default:
		return 1.2
	}
}

// DayOfWeekMultiplier 周五到周日（UTC）加价
func DayOfWeekMultiplier(date time.Time) float64 {
	if Weekday(date) >= 4 {
		return weekendMult
	}
	return 1.0
}

func DemandMultiplier(name string) float64 {
	if IsHighDemand(name) {
		return highDemandMult
	}
	return 1.0
}

func IsHighDemand(name string) bool {
	return containsAny(strings.ToLower(name), highDemandKeywords)
}

// Weekday 周一=0 ... 周日=6（UTC）
func Weekday(date time.Time) int {
	return (int(date.UTC().Weekday()) + 6) % 7
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
