package service

import (
	"sort"

	"github.com/bagel786/TickTracker2.0/internal/model"
)

const iqrFence = 1.5

// CleanPriceHistory 按 IQR 规则剔除离群价格点（分位数线性插值），保留原有顺序
func CleanPriceHistory(points []*model.PriceHistory) []*model.PriceHistory {
	if len(points) == 0 {
		return []*model.PriceHistory{}
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	sort.Float64s(prices)

	q1 := quantile(prices, 0.25)
	q3 := quantile(prices, 0.75)
	iqr := q3 - q1
	lower, upper := q1-iqrFence*iqr, q3+iqrFence*iqr

	cleaned := make([]*model.PriceHistory, 0, len(points))
	for _, p := range points {
		if p.Price >= lower && p.Price <= upper {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

// quantile sorted 需已升序
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
