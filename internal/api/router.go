package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册全部 HTTP 路由
func RegisterRoutes(r *gin.Engine, events *EventHandler, predict *PredictHandler, sources *SourceHandler) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "TickTracker API is running"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/events/search", events.SearchEvents)
	r.GET("/events/:id", events.GetEvent)
	r.POST("/events/:id/report-price", events.ReportPrice)
	r.GET("/price-history/:id", events.GetPriceHistory)

	r.GET("/predict/:id", predict.Predict)
	ml := r.Group("/ml")
	{
		ml.POST("/predict_price", predict.PredictPrice)
		ml.POST("/reload", predict.ReloadModel)
	}

	r.GET("/sources", sources.ListSources)
	r.GET("/sources/:source/events", sources.FetchSource)
}

// CORSMiddleware origins 为逗号分隔列表，"*" 或空表示全部放行
func CORSMiddleware(origins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	origins = strings.TrimSpace(origins)
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
	} else {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	return cors.New(cfg)
}
