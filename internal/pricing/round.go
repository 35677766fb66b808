package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 金额保留两位小数（十进制舍入，避免二进制浮点的 x.xx5 误差）
func Round2(v float64) float64 {
	return roundPlaces(v, 2)
}

// Round1 置信度保留一位小数
func Round1(v float64) float64 {
	return roundPlaces(v, 1)
}

func roundPlaces(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
