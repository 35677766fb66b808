package seatgeek

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bagel786/TickTracker2.0/internal/adapter"
	"github.com/bagel786/TickTracker2.0/internal/config"
	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/model"
	"github.com/bagel786/TickTracker2.0/internal/utils/httpclient"
	"github.com/bagel786/TickTracker2.0/internal/utils/timeparse"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL  = "https://api.seatgeek.com"
	defaultPageSize = 50
	idPrefix        = "sg_"
	queryTimeLayout = "2006-01-02T15:04:05"
)

func init() {
	adapter.Register(model.SourceSeatGeek, NewSeatGeekAdapter)
}

type Adapter struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewSeatGeekAdapter(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetName() model.SourceType {
	return model.SourceSeatGeek
}

// FetchEvents 未配置 client_id 时直接返回空结果，不发请求
func (a *Adapter) FetchEvents(ctx context.Context, q model.SearchQuery) ([]*model.CanonicalEvent, error) {
	if a.cfg.APIKey == "" {
		a.logger.Debug("未配置SeatGeek client_id，跳过")
		return []*model.CanonicalEvent{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.searchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("构建SeatGeek请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取SeatGeek事件失败: %w", err)
	}
	defer adapter.CloseBody(resp)

	if err := adapter.CheckStatus(resp); err != nil {
		return nil, fmt.Errorf("获取SeatGeek事件失败: %w", err)
	}

	var envelope model.SeatGeekResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("解析SeatGeek响应失败: %w", err)
	}

	events := make([]*model.CanonicalEvent, 0, len(envelope.Events))
	for i, raw := range envelope.Events {
		var se model.SeatGeekEvent
		if err := json.Unmarshal(raw, &se); err != nil {
			a.logger.WithError(err).WithField("index", i).Warn("SeatGeek事件解析失败，跳过")
			continue
		}
		ev, err := toCanonical(&se)
		if err != nil {
			a.logger.WithError(err).WithField("event_id", se.ID).Warn("SeatGeek事件转换失败，跳过")
			continue
		}
		events = append(events, ev)
	}

	a.logger.WithField("count", len(events)).Info("成功获取SeatGeek事件")
	return events, nil
}

func (a *Adapter) searchURL(q model.SearchQuery) string {
	params := url.Values{}
	params.Set("client_id", a.cfg.APIKey)
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Location != "" {
		params.Set("venue.city", q.Location)
	}
	if q.StartDate != nil {
		params.Set("datetime_utc.gte", q.StartDate.UTC().Format(queryTimeLayout))
	}
	if q.EndDate != nil {
		params.Set("datetime_utc.lte", q.EndDate.UTC().Format(queryTimeLayout))
	}
	size := a.cfg.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	params.Set("per_page", strconv.Itoa(size))
	params.Set("sort", "datetime_utc.asc")

	base := strings.TrimRight(adapter.OrDefault(a.cfg.BaseURL, defaultBaseURL), "/")
	return base + "/2/events?" + params.Encode()
}

func toCanonical(se *model.SeatGeekEvent) (*model.CanonicalEvent, error) {
	if se.ID == 0 {
		return nil, fmt.Errorf("缺少事件ID")
	}
	if se.DatetimeUTC == "" {
		return nil, fmt.Errorf("缺少开始时间")
	}
	// datetime_utc 不带时区后缀，按 UTC 解析
	date, err := timeparse.Parse(se.DatetimeUTC)
	if err != nil {
		return nil, fmt.Errorf("解析开始时间失败: %w", err)
	}

	low, high := adapter.PriceRange(se.Stats.LowestPrice, se.Stats.HighestPrice)
	return &model.CanonicalEvent{
		ID:            idPrefix + strconv.FormatInt(se.ID, 10),
		Name:          se.Title,
		Venue:         adapter.OrDefault(se.Venue.Name, model.UnknownVenue),
		City:          adapter.OrDefault(se.Venue.City, model.UnknownCity),
		VenueCapacity: adapter.Capacity(se.Venue.Capacity),
		Date:          date,
		Timezone:      se.Venue.Timezone,
		PriceLow:      low,
		PriceHigh:     high,
		URL:           se.URL,
		Source:        string(model.SourceSeatGeek),
	}, nil
}
