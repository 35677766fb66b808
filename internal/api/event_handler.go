package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/model"
	"github.com/bagel786/TickTracker2.0/internal/repository"
	"github.com/bagel786/TickTracker2.0/internal/service"
	"github.com/bagel786/TickTracker2.0/internal/utils/timeparse"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 事件检索、详情、历史价格与价格上报接口
type EventHandler struct {
	search *service.SearchService
	repo   repository.EventRepository
	logger *logrus.Logger
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(search *service.SearchService, repo repository.EventRepository, logger *logrus.Logger) *EventHandler {
	return &EventHandler{search: search, repo: repo, logger: logger}
}

// searchRequest 检索参数；日期支持 RFC3339 / 无时区时间 / 仅日期
type searchRequest struct {
	Query     string   `form:"query"`
	Location  string   `form:"location"`
	StartDate string   `form:"start_date"`
	EndDate   string   `form:"end_date"`
	MinPrice  *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice  *float64 `form:"max_price" binding:"omitempty,gte=0"`
}

// priceReportRequest 用户价格上报
type priceReportRequest struct {
	Price     *float64 `json:"price" binding:"required,ticket_price"`
	SourceURL *string  `json:"source_url" binding:"omitempty,url"`
}

// eventDetail 事件详情 + 历史价格
type eventDetail struct {
	*model.CanonicalEvent
	PriceHistory []*model.PriceHistory `json:"price_history"`
}

// SearchEvents 多数据源检索
// GET /events/search?query=hamilton&location=Chicago&start_date=2026-03-01&min_price=50
func (h *EventHandler) SearchEvents(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	q := model.SearchQuery{Query: req.Query, Location: req.Location}
	var err error
	if q.StartDate, err = optionalTime(req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date: " + err.Error()})
		return
	}
	if q.EndDate, err = optionalTime(req.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date: " + err.Error()})
		return
	}

	events := h.search.Search(c.Request.Context(), q, service.PriceFilter{Min: req.MinPrice, Max: req.MaxPrice})
	c.JSON(http.StatusOK, events)
}

// GetEvent 事件详情
// GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := c.Param("id")
	event, ok := h.loadEvent(c, id)
	if !ok {
		return
	}

	history, err := h.repo.ListPriceHistory(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("event_id", id).Warn("查询历史价格失败")
		history = []*model.PriceHistory{}
	}
	if history == nil {
		history = []*model.PriceHistory{}
	}
	c.JSON(http.StatusOK, eventDetail{CanonicalEvent: event, PriceHistory: history})
}

// GetPriceHistory 历史价格，clean=true 时剔除离群点
// GET /price-history/:id?clean=true
func (h *EventHandler) GetPriceHistory(c *gin.Context) {
	id := c.Param("id")
	clean, _ := strconv.ParseBool(c.DefaultQuery("clean", "false"))

	history, err := h.repo.ListPriceHistory(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("event_id", id).Error("GetPriceHistory failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if clean {
		history = service.CleanPriceHistory(history)
	}
	if history == nil {
		history = []*model.PriceHistory{}
	}
	c.JSON(http.StatusOK, history)
}

// ReportPrice 用户上报价格：先确认事件存在，再校验价格
// POST /events/:id/report-price
func (h *EventHandler) ReportPrice(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.loadEvent(c, id); !ok {
		return
	}

	var req priceReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	report := &model.UserPriceReport{
		EventID:   id,
		Price:     *req.Price,
		SourceURL: req.SourceURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreatePriceReport(c.Request.Context(), report); err != nil {
		h.logger.WithError(err).WithField("event_id", id).Error("ReportPrice failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.WithFields(logrus.Fields{"event_id": id, "price": report.Price}).Info("收到用户价格上报")
	c.JSON(http.StatusOK, report)
}

// loadEvent 不存在时写 404，其他错误写 500
func (h *EventHandler) loadEvent(c *gin.Context, id string) (*model.CanonicalEvent, bool) {
	event, err := h.repo.GetEventByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return nil, false
		}
		h.logger.WithError(err).WithField("event_id", id).Error("查询事件失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return event, true
}

func optionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := timeparse.Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
