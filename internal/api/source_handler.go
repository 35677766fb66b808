package api

import (
	"net/http"

	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SourceLookup 按名称获取已初始化的数据源
type SourceLookup interface {
	ListRegisteredSources() []model.SourceType
	GetAdapter(source model.SourceType) (interfaces.SourceAdapter, error)
}

// SourceHandler 数据源排查接口：查看已启用数据源、单独调用某个数据源（不去重、不估价、不入库）
type SourceHandler struct {
	sources SourceLookup
	logger  *logrus.Logger
}

func NewSourceHandler(sources SourceLookup, logger *logrus.Logger) *SourceHandler {
	return &SourceHandler{sources: sources, logger: logger}
}

// ListSources GET /sources
func (h *SourceHandler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": h.sources.ListRegisteredSources()})
}

// FetchSource 单独拉取某个数据源的原始归一化结果
// @Param source path string true "数据源名称（ticketmaster/seatgeek/eventbrite）"
// @Param query query string false "关键词"
// @Param location query string false "城市"
// @Router /sources/{source}/events [get]
func (h *SourceHandler) FetchSource(c *gin.Context) {
	name := model.SourceType(c.Param("source"))
	adapterIns, err := h.sources.GetAdapter(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	q := model.SearchQuery{Query: c.Query("query"), Location: c.Query("location")}
	events, err := adapterIns.FetchEvents(c.Request.Context(), q)
	if err != nil {
		h.logger.WithError(err).WithField("source", name).Errorf("调用数据源%s失败", name)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []*model.CanonicalEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"source": name, "count": len(events), "events": events})
}
