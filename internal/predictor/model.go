package predictor

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bagel786/TickTracker2.0/internal/model"
)

// missingCategory 类别特征缺失时的占位值（与训练时的常量填充一致）
const missingCategory = "missing"

// NumericFeature 数值特征：缺失用中位数填充，再做标准化
type NumericFeature struct {
	Name   string  `json:"name"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
	Coef   float64 `json:"coef"`
}

// CategoricalFeature 类别特征：one-hot 权重，未见过的取值权重为 0
type CategoricalFeature struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
}

// LinearModel 导出的线性价格模型，输出为 log1p 价格
type LinearModel struct {
	Version     string               `json:"version"`
	TrainedAt   string               `json:"trained_at,omitempty"`
	Intercept   float64              `json:"intercept"`
	Numeric     []NumericFeature     `json:"numeric"`
	Categorical []CategoricalFeature `json:"categorical"`
}

// Validate 检查特征名是否可识别、标准化参数是否合法
func (m *LinearModel) Validate() error {
	if len(m.Numeric) == 0 && len(m.Categorical) == 0 {
		return fmt.Errorf("模型不包含任何特征")
	}
	for _, f := range m.Numeric {
		if _, ok := numericValue(model.PriceFeatures{}, f.Name); !ok {
			return fmt.Errorf("未知数值特征: %s", f.Name)
		}
		if f.Scale == 0 || math.IsNaN(f.Scale) || math.IsInf(f.Scale, 0) {
			return fmt.Errorf("数值特征%s的scale非法: %v", f.Name, f.Scale)
		}
	}
	for _, f := range m.Categorical {
		if _, ok := categoricalValue(model.PriceFeatures{}, f.Name); !ok {
			return fmt.Errorf("未知类别特征: %s", f.Name)
		}
	}
	return nil
}

// Predict 返回 log1p 价格
func (m *LinearModel) Predict(features model.PriceFeatures) float64 {
	y := m.Intercept
	for _, f := range m.Numeric {
		v, _ := numericValue(features, f.Name)
		x := f.Median
		if v != nil {
			x = *v
		}
		y += f.Coef * (x - f.Mean) / f.Scale
	}
	for _, f := range m.Categorical {
		v, _ := categoricalValue(features, f.Name)
		y += f.Weights[v]
	}
	return y
}

// numericValue 返回特征值（nil 表示缺失）以及特征名是否可识别
func numericValue(f model.PriceFeatures, name string) (*float64, bool) {
	switch name {
	case "days_to_event_at_observation":
		return model.Float64Ptr(float64(f.DaysToEvent)), true
	case "venue_capacity":
		if f.VenueCapacity == nil {
			return nil, true
		}
		return model.Float64Ptr(float64(*f.VenueCapacity)), true
	case "heuristic_mid":
		return model.Float64Ptr(f.HeuristicMid), true
	case "ticketmaster_min_price":
		return f.TicketmasterMin, true
	case "ticketmaster_max_price":
		return f.TicketmasterMax, true
	case "seatgeek_min_price":
		return f.SeatGeekMin, true
	case "seatgeek_max_price":
		return f.SeatGeekMax, true
	case "eventbrite_min_tier_price":
		return f.EventbriteMinTier, true
	default:
		return nil, false
	}
}

func categoricalValue(f model.PriceFeatures, name string) (string, bool) {
	var v string
	switch name {
	case "event_type":
		v = f.EventType
	case "city":
		v = f.City
	case "country":
		v = f.Country
	case "weekday":
		v = strconv.Itoa(f.Weekday)
	case "demand_signal":
		v = f.DemandSignal
	default:
		return "", false
	}
	if v == "" {
		v = missingCategory
	}
	return v, true
}
