package pricing

// Blend 置信度加权混合模型预测与启发式中位价；mlMid 为空时原样返回启发式结果
// confidence 取值 0-1
func Blend(h HeuristicResult, mlMid *float64, confidence float64) BlendResult {
	if mlMid == nil {
		return BlendResult{
			Low:        h.Low,
			High:       h.High,
			Mid:        h.Mid,
			Confidence: 0,
			Source:     SourceHeuristicOnly,
		}
	}

	mid := confidence*(*mlMid) + (1-confidence)*h.Mid
	return BlendResult{
		Low:        Round2(mid * lowFactor),
		High:       Round2(mid * highFactor),
		Mid:        Round2(mid),
		Confidence: Round1(confidence * 100),
		Source:     SourceMLHeuristic,
	}
}
