package pricing

const (
	lastMinuteDays         = 5
	recommendMinConfidence = 0.75
	cheapFactor            = 0.9
	expensiveFactor        = 1.1
)

// Recommend 根据距开演天数、置信度(0-1)、当前价与预期中位价给出购票建议
func Recommend(daysToEvent int, confidence float64, current *float64, expectedMid float64) Recommendation {
	if daysToEvent <= lastMinuteDays {
		return RecommendBuyNow
	}
	if current == nil {
		return RecommendMonitor
	}
	if confidence >= recommendMinConfidence {
		if *current < expectedMid*cheapFactor {
			return RecommendBuyNow
		}
		if *current > expectedMid*expensiveFactor {
			return RecommendWait
		}
	}
	return RecommendMonitor
}
