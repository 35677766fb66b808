package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/metrics"
	"github.com/bagel786/TickTracker2.0/internal/model"
	"github.com/bagel786/TickTracker2.0/internal/pricing"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultModelConfidence 模型可用时的混合权重
	DefaultModelConfidence = 0.7
	defaultCountry         = "US"
	demandHigh             = "high"
	demandUnknown          = "unknown"
)

// PredictionService 启发式 + 外部模型的价格预测
type PredictionService struct {
	heuristic  *pricing.Heuristic
	predictor  interfaces.PricePredictor // 可为空，仅用启发式
	confidence float64
	logger     *logrus.Logger
}

func NewPredictionService(heuristic *pricing.Heuristic, predictor interfaces.PricePredictor, confidence float64, logger *logrus.Logger) *PredictionService {
	if confidence <= 0 || confidence > 1 {
		confidence = DefaultModelConfidence
	}
	return &PredictionService{
		heuristic:  heuristic,
		predictor:  predictor,
		confidence: confidence,
		logger:     logger,
	}
}

// EstimateHeuristic 仅启发式估价
func (s *PredictionService) EstimateHeuristic(e *model.CanonicalEvent) pricing.HeuristicResult {
	return s.heuristic.Estimate(e)
}

// EstimatePrice 模型不可用或出错时退回纯启发式，不向调用方返回错误
func (s *PredictionService) EstimatePrice(ctx context.Context, e *model.CanonicalEvent) pricing.PredictionResult {
	h := s.heuristic.Estimate(e)

	var mlMid *float64
	confidence := 0.0
	if s.predictor != nil {
		mid, err := s.predictMid(ctx, s.BuildFeatures(e, h))
		switch {
		case errors.Is(err, model.ErrPredictorUnavailable):
			s.logger.WithField("event_id", e.ID).Debug("价格模型未加载，使用启发式结果")
		case err != nil:
			metrics.PredictorFailures.Inc()
			s.logger.WithError(err).WithField("event_id", e.ID).Warn("模型预测失败，使用启发式结果")
		default:
			mlMid = &mid
			confidence = s.confidence
		}
	}

	blended := pricing.Blend(h, mlMid, confidence)
	rec := pricing.Recommend(h.Components.DaysToEvent, blended.Confidence/100, s.currentPrice(e), blended.Mid)
	metrics.Predictions.WithLabelValues(string(blended.Source)).Inc()

	return pricing.PredictionResult{
		EventID:          e.ID,
		PredLow:          blended.Low,
		PredHigh:         blended.High,
		PredMid:          blended.Mid,
		Confidence:       blended.Confidence,
		Source:           blended.Source,
		Recommendation:   rec,
		HeuristicDetails: h,
	}
}

// currentPrice 以观测到的最低价作为当前价；估算价不算
func (s *PredictionService) currentPrice(e *model.CanonicalEvent) *float64 {
	if e.IsEstimated() {
		return nil
	}
	return e.PriceLow
}

// predictMid 调用模型并把 log1p 结果还原为价格；panic、NaN/Inf、非正数都视为失败
func (s *PredictionService) predictMid(ctx context.Context, f model.PriceFeatures) (mid float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("模型预测panic: %v", r)
		}
	}()

	logPrice, err := s.predictor.Predict(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("模型预测失败: %w", err)
	}
	mid = math.Expm1(logPrice)
	if math.IsNaN(mid) || math.IsInf(mid, 0) || mid <= 0 {
		return 0, fmt.Errorf("模型预测值非法: %v", mid)
	}
	return mid, nil
}

// BuildFeatures 组装模型特征；各数据源价格只在事件自身来自该数据源且为观测值时填写
func (s *PredictionService) BuildFeatures(e *model.CanonicalEvent, h pricing.HeuristicResult) model.PriceFeatures {
	f := model.PriceFeatures{
		DaysToEvent:   h.Components.DaysToEvent,
		VenueCapacity: e.VenueCapacity,
		HeuristicMid:  h.Mid,
		EventType:     string(h.Components.EventType),
		City:          e.City,
		Country:       defaultCountry,
		Weekday:       pricing.Weekday(e.Date),
		DemandSignal:  demandUnknown,
	}
	if pricing.IsHighDemand(e.Name) {
		f.DemandSignal = demandHigh
	}
	if e.City == model.UnknownCity {
		f.City = ""
	}

	if !e.IsEstimated() {
		switch e.OriginSource() {
		case model.SourceTicketmaster:
			f.TicketmasterMin, f.TicketmasterMax = e.PriceLow, e.PriceHigh
		case model.SourceSeatGeek:
			f.SeatGeekMin, f.SeatGeekMax = e.PriceLow, e.PriceHigh
		case model.SourceEventbrite:
			f.EventbriteMinTier = e.PriceLow
		}
	}
	return f
}
