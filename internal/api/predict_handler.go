package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/adapter"
	"github.com/bagel786/TickTracker2.0/internal/model"
	"github.com/bagel786/TickTracker2.0/internal/pricing"
	"github.com/bagel786/TickTracker2.0/internal/repository"
	"github.com/bagel786/TickTracker2.0/internal/service"
	"github.com/bagel786/TickTracker2.0/internal/utils/timeparse"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const projectionDays = 7

// ModelReloader 价格模型热加载
type ModelReloader interface {
	Reload() error
	Version() string
}

// PredictHandler 价格预测接口
type PredictHandler struct {
	prediction *service.PredictionService
	repo       repository.EventRepository
	reloader   ModelReloader // 可为空
	logger     *logrus.Logger
}

// NewPredictHandler 创建 PredictHandler
func NewPredictHandler(prediction *service.PredictionService, repo repository.EventRepository, reloader ModelReloader, logger *logrus.Logger) *PredictHandler {
	return &PredictHandler{prediction: prediction, repo: repo, reloader: reloader, logger: logger}
}

// predictionSummary 简化的预测结果（前端卡片用）
type predictionSummary struct {
	Prediction string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
	Projection []float64 `json:"next_7_days_projection"`
}

// predictEventRequest 直接按事件内容预测（事件无需入库）
type predictEventRequest struct {
	ID            string   `json:"id" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Venue         string   `json:"venue"`
	City          string   `json:"city"`
	VenueCapacity *int     `json:"venue_capacity" binding:"omitempty,gt=0"`
	Date          string   `json:"date" binding:"required"`
	PriceLow      *float64 `json:"price_low" binding:"omitempty,gte=0"`
	PriceHigh     *float64 `json:"price_high" binding:"omitempty,gte=0"`
	URL           string   `json:"url"`
	Source        string   `json:"source"`
}

// toEvent 转为 CanonicalEvent；价格区间与适配器同样规范化，保证 low <= high
func (r predictEventRequest) toEvent(date time.Time) *model.CanonicalEvent {
	low, high := adapter.PriceRange(r.PriceLow, r.PriceHigh)
	return &model.CanonicalEvent{
		ID:            r.ID,
		Name:          r.Name,
		Venue:         r.Venue,
		City:          r.City,
		VenueCapacity: r.VenueCapacity,
		Date:          date,
		PriceLow:      low,
		PriceHigh:     high,
		URL:           r.URL,
		Source:        r.Source,
	}
}

// Predict 已入库事件的预测摘要；事件不存在时 404，其余失败返回 monitor
// GET /predict/:id
func (h *PredictHandler) Predict(c *gin.Context) {
	id := c.Param("id")
	event, err := h.repo.GetEventByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found for prediction"})
			return
		}
		h.logger.WithError(err).WithField("event_id", id).Warn("预测时查询事件失败，返回monitor")
		c.JSON(http.StatusOK, fallbackSummary())
		return
	}

	result := h.prediction.EstimatePrice(c.Request.Context(), event)
	h.logPrediction(c.Request.Context(), result)
	c.JSON(http.StatusOK, summarize(result))
}

// PredictPrice 按请求体中的事件预测完整结果
// POST /ml/predict_price
func (h *PredictHandler) PredictPrice(c *gin.Context) {
	var req predictEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	date, err := timeparse.Parse(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date: " + err.Error()})
		return
	}

	result := h.prediction.EstimatePrice(c.Request.Context(), req.toEvent(date))
	h.logPrediction(c.Request.Context(), result)
	c.JSON(http.StatusOK, result)
}

// ReloadModel 重新加载模型文件
// POST /ml/reload
func (h *PredictHandler) ReloadModel(c *gin.Context) {
	if h.reloader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price model is not configured"})
		return
	}
	if err := h.reloader.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Price model reloaded", "version": h.reloader.Version()})
}

// logPrediction 预测留档失败不影响响应
func (h *PredictHandler) logPrediction(ctx context.Context, r pricing.PredictionResult) {
	components, err := json.Marshal(r.HeuristicDetails.Components)
	if err != nil {
		h.logger.WithError(err).WithField("event_id", r.EventID).Warn("序列化启发式明细失败")
		components = []byte("{}")
	}
	entry := &model.PredictionLog{
		EventID:        r.EventID,
		PredLow:        r.PredLow,
		PredMid:        r.PredMid,
		PredHigh:       r.PredHigh,
		Confidence:     r.Confidence,
		Source:         string(r.Source),
		Recommendation: string(r.Recommendation),
		Components:     datatypes.JSON(components),
	}
	if err := h.repo.CreatePredictionLog(ctx, entry); err != nil {
		h.logger.WithError(err).WithField("event_id", r.EventID).Warn("保存预测记录失败")
	}
}

// summarize "Buy now" → "buy"，并按中位价做 7 天线性外推
func summarize(r pricing.PredictionResult) predictionSummary {
	projection := make([]float64, projectionDays)
	for i := range projection {
		projection[i] = pricing.Round2(r.PredMid * (1 + float64(i)*0.01))
	}
	return predictionSummary{
		Prediction: strings.ToLower(strings.Fields(string(r.Recommendation))[0]),
		Confidence: r.Confidence / 100,
		Projection: projection,
	}
}

func fallbackSummary() predictionSummary {
	return predictionSummary{Prediction: "monitor", Confidence: 0, Projection: []float64{}}
}
