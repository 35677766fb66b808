package ticketmaster

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

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
	defaultBaseURL  = "https://app.ticketmaster.com"
	defaultPageSize = 50
	idPrefix        = "tm_"
	eventURLFormat  = "https://www.ticketmaster.com/event/%s"
	queryTimeLayout = "2006-01-02T15:04:05Z"
)

func init() {
	adapter.Register(model.SourceTicketmaster, NewTicketmasterAdapter)
}

type Adapter struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewTicketmasterAdapter(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// GetName ========== 实现SourceAdapter接口 ==========
func (a *Adapter) GetName() model.SourceType {
	return model.SourceTicketmaster
}

func (a *Adapter) FetchEvents(ctx context.Context, q model.SearchQuery) ([]*model.CanonicalEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.searchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("构建Ticketmaster请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取Ticketmaster事件失败: %w", err)
	}
	defer adapter.CloseBody(resp)

	if err := adapter.CheckStatus(resp); err != nil {
		return nil, fmt.Errorf("获取Ticketmaster事件失败: %w", err)
	}

	var envelope model.TicketmasterResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("解析Ticketmaster响应失败: %w", err)
	}

	events := make([]*model.CanonicalEvent, 0, len(envelope.Embedded.Events))
	for i, raw := range envelope.Embedded.Events {
		var te model.TicketmasterEvent
		if err := json.Unmarshal(raw, &te); err != nil {
			a.logger.WithError(err).WithField("index", i).Warn("Ticketmaster事件解析失败，跳过")
			continue
		}
		ev, err := a.toCanonical(&te)
		if err != nil {
			a.logger.WithError(err).WithField("event_id", te.ID).Warn("Ticketmaster事件转换失败，跳过")
			continue
		}
		events = append(events, ev)
	}

	a.logger.WithField("count", len(events)).Info("成功获取Ticketmaster事件")
	return events, nil
}

func (a *Adapter) searchURL(q model.SearchQuery) string {
	params := url.Values{}
	params.Set("apikey", a.cfg.APIKey)
	if q.Query != "" {
		params.Set("keyword", q.Query)
	}
	if q.Location != "" {
		params.Set("city", q.Location)
	}
	if q.StartDate != nil {
		params.Set("startDateTime", q.StartDate.UTC().Format(queryTimeLayout))
	}
	if q.EndDate != nil {
		params.Set("endDateTime", q.EndDate.UTC().Format(queryTimeLayout))
	}
	size := a.cfg.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", "date,asc")

	base := strings.TrimRight(adapter.OrDefault(a.cfg.BaseURL, defaultBaseURL), "/")
	return base + "/discovery/v2/events.json?" + params.Encode()
}

func (a *Adapter) toCanonical(te *model.TicketmasterEvent) (*model.CanonicalEvent, error) {
	if te.ID == "" {
		return nil, fmt.Errorf("缺少事件ID")
	}
	date, err := eventDate(te.Dates)
	if err != nil {
		return nil, err
	}

	ev := &model.CanonicalEvent{
		ID:       idPrefix + te.ID,
		Name:     te.Name,
		Venue:    model.UnknownVenue,
		City:     model.UnknownCity,
		Date:     date,
		Timezone: te.Dates.Timezone,
		URL:      adapter.OrDefault(te.URL, fmt.Sprintf(eventURLFormat, te.ID)),
		Source:   string(model.SourceTicketmaster),
	}
	if len(te.Embedded.Venues) > 0 {
		v := te.Embedded.Venues[0]
		ev.Venue = adapter.OrDefault(v.Name, model.UnknownVenue)
		ev.City = adapter.OrDefault(v.City.Name, model.UnknownCity)
		ev.VenueCapacity = adapter.Capacity(v.Capacity)
	}
	if len(te.PriceRanges) > 0 {
		ev.PriceLow, ev.PriceHigh = adapter.PriceRange(te.PriceRanges[0].Min, te.PriceRanges[0].Max)
	}
	return ev, nil
}

// eventDate 优先 dateTime，其次 localDate（按 UTC 零点）
func eventDate(d model.TicketmasterDates) (time.Time, error) {
	raw := d.Start.DateTime
	if raw == "" {
		raw = d.Start.LocalDate
	}
	if raw == "" {
		return time.Time{}, fmt.Errorf("缺少开始时间")
	}
	t, err := timeparse.Parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("解析开始时间失败: %w", err)
	}
	return t, nil
}
