package eventbrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
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
	defaultBaseURL  = "https://www.eventbriteapi.com"
	idPrefix        = "eb_"
	queryTimeLayout = "2006-01-02T15:04:05Z"
)

func init() {
	adapter.Register(model.SourceEventbrite, NewEventbriteAdapter)
}

type Adapter struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewEventbriteAdapter(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetName() model.SourceType {
	return model.SourceEventbrite
}

// FetchEvents 搜索接口不返回场馆与票价，场馆记为未知、价格留空
func (a *Adapter) FetchEvents(ctx context.Context, q model.SearchQuery) ([]*model.CanonicalEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.searchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("构建Eventbrite请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.AuthToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取Eventbrite事件失败: %w", err)
	}
	defer adapter.CloseBody(resp)

	if err := adapter.CheckStatus(resp); err != nil {
		return nil, fmt.Errorf("获取Eventbrite事件失败: %w", err)
	}

	var envelope model.EventbriteResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("解析Eventbrite响应失败: %w", err)
	}

	events := make([]*model.CanonicalEvent, 0, len(envelope.Events))
	for i, raw := range envelope.Events {
		var ee model.EventbriteEvent
		if err := json.Unmarshal(raw, &ee); err != nil {
			a.logger.WithError(err).WithField("index", i).Warn("Eventbrite事件解析失败，跳过")
			continue
		}
		ev, err := toCanonical(&ee)
		if err != nil {
			a.logger.WithError(err).WithField("event_id", ee.ID).Warn("Eventbrite事件转换失败，跳过")
			continue
		}
		events = append(events, ev)
	}

	a.logger.WithField("count", len(events)).Info("成功获取Eventbrite事件")
	return events, nil
}

func (a *Adapter) searchURL(q model.SearchQuery) string {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Location != "" {
		params.Set("location.address", q.Location)
	}
	if q.StartDate != nil {
		params.Set("start_date.range_start", q.StartDate.UTC().Format(queryTimeLayout))
	}
	if q.EndDate != nil {
		params.Set("start_date.range_end", q.EndDate.UTC().Format(queryTimeLayout))
	}

	base := strings.TrimRight(adapter.OrDefault(a.cfg.BaseURL, defaultBaseURL), "/")
	u := base + "/v3/events/search/"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func toCanonical(ee *model.EventbriteEvent) (*model.CanonicalEvent, error) {
	if ee.ID == "" {
		return nil, fmt.Errorf("缺少事件ID")
	}
	if ee.Start.UTC == "" {
		return nil, fmt.Errorf("缺少开始时间")
	}
	date, err := timeparse.Parse(ee.Start.UTC)
	if err != nil {
		return nil, fmt.Errorf("解析开始时间失败: %w", err)
	}
	return &model.CanonicalEvent{
		ID:       idPrefix + ee.ID,
		Name:     ee.Name.Text,
		Venue:    model.UnknownVenue,
		City:     model.UnknownCity,
		Date:     date,
		Timezone: ee.Start.Timezone,
		URL:      ee.URL,
		Source:   string(model.SourceEventbrite),
	}, nil
}
