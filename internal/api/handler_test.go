package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/clock"
	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/model"
	"github.com/bagel786/TickTracker2.0/internal/pricing"
	"github.com/bagel786/TickTracker2.0/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

var testNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	events   map[string]*model.CanonicalEvent
	history  []*model.PriceHistory
	getErr   error
	reports  []*model.UserPriceReport
	logs     []*model.PredictionLog
	upserted int
}

func (f *fakeRepo) UpsertEvents(ctx context.Context, events []*model.CanonicalEvent) error {
	f.upserted += len(events)
	return nil
}

func (f *fakeRepo) GetEventByID(ctx context.Context, id string) (*model.CanonicalEvent, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.events[id]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeRepo) ListPriceHistory(ctx context.Context, eventID string) ([]*model.PriceHistory, error) {
	return f.history, nil
}

func (f *fakeRepo) CreatePriceReport(ctx context.Context, report *model.UserPriceReport) error {
	report.ID = "report-1"
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeRepo) CreatePredictionLog(ctx context.Context, log *model.PredictionLog) error {
	f.logs = append(f.logs, log)
	return nil
}

type fakeMerger struct {
	events []*model.CanonicalEvent
	got    model.SearchQuery
}

func (f *fakeMerger) MergeAndDedupe(ctx context.Context, q model.SearchQuery) []*model.CanonicalEvent {
	f.got = q
	return f.events
}

type fakeReloader struct{ err error }

func (f *fakeReloader) Reload() error   { return f.err }
func (f *fakeReloader) Version() string { return "2026.01" }

type fakeSources struct {
	adapter interfaces.SourceAdapter
}

func (f *fakeSources) ListRegisteredSources() []model.SourceType {
	return []model.SourceType{f.adapter.GetName()}
}

func (f *fakeSources) GetAdapter(source model.SourceType) (interfaces.SourceAdapter, error) {
	if source != f.adapter.GetName() {
		return nil, errors.New("not initialized")
	}
	return f.adapter, nil
}

type staticAdapter struct{}

func (staticAdapter) GetName() model.SourceType { return model.SourceSeatGeek }

func (staticAdapter) FetchEvents(ctx context.Context, q model.SearchQuery) ([]*model.CanonicalEvent, error) {
	return []*model.CanonicalEvent{{ID: "sg_9", Name: q.Query}}, nil
}

type testEnv struct {
	router *gin.Engine
	repo   *fakeRepo
	merger *fakeMerger
}

func newTestEnv(t *testing.T, reloader ModelReloader) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &fakeRepo{events: map[string]*model.CanonicalEvent{
		"tm_1": {
			ID: "tm_1", Name: "Hamilton", Venue: "CIBC Theatre", City: "Chicago",
			Date: testNow.Add(30 * 24 * time.Hour), PriceLow: model.Float64Ptr(120), Source: "ticketmaster",
		},
	}}
	merger := &fakeMerger{events: []*model.CanonicalEvent{
		{ID: "a", PriceLow: model.Float64Ptr(40)},
		{ID: "b", PriceLow: model.Float64Ptr(90)},
		{ID: "c"},
	}}

	h := pricing.NewHeuristic(clock.NewFixed(testNow))
	prediction := service.NewPredictionService(h, nil, 0, logger)
	search := service.NewSearchService(merger, repo, logger)

	r := gin.New()
	RegisterRoutes(r,
		NewEventHandler(search, repo, logger),
		NewPredictHandler(prediction, repo, reloader, logger),
		NewSourceHandler(&fakeSources{adapter: staticAdapter{}}, logger),
	)
	return &testEnv{router: r, repo: repo, merger: merger}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSearchEvents(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/events/search?query=hamilton&location=Chicago&start_date=2026-03-01&min_price=50", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got []model.CanonicalEvent
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Errorf("got %+v, want b and c", got)
	}
	if env.merger.got.Query != "hamilton" || env.merger.got.StartDate == nil ||
		!env.merger.got.StartDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("query = %+v", env.merger.got)
	}
	if env.repo.upserted != 2 {
		t.Errorf("upserted = %d, want 2", env.repo.upserted)
	}
}

func TestSearchEventsRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, path := range []string{
		"/events/search?start_date=someday",
		"/events/search?min_price=-5",
		"/events/search?max_price=cheap",
	} {
		if w := env.do(http.MethodGet, path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestGetEvent(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.history = []*model.PriceHistory{{ID: 1, EventID: "tm_1", Price: 130, Timestamp: testNow}}

	w := env.do(http.MethodGet, "/events/tm_1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		ID           string               `json:"id"`
		PriceHistory []model.PriceHistory `json:"price_history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "tm_1" || len(body.PriceHistory) != 1 {
		t.Errorf("body = %+v", body)
	}

	if w := env.do(http.MethodGet, "/events/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown event status = %d, want 404", w.Code)
	}
}

func TestGetPriceHistoryClean(t *testing.T) {
	env := newTestEnv(t, nil)
	for i, p := range []float64{100, 101, 99, 102, 98, 900} {
		env.repo.history = append(env.repo.history, &model.PriceHistory{ID: uint64(i), Price: p})
	}

	var raw, clean []model.PriceHistory
	_ = json.Unmarshal(env.do(http.MethodGet, "/price-history/tm_1", "").Body.Bytes(), &raw)
	_ = json.Unmarshal(env.do(http.MethodGet, "/price-history/tm_1?clean=true", "").Body.Bytes(), &clean)
	if len(raw) != 6 || len(clean) != 5 {
		t.Errorf("raw = %d, clean = %d, want 6/5", len(raw), len(clean))
	}
}

func TestReportPrice(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"unknown event", "/events/nope/report-price", `{"price": 100}`, http.StatusNotFound, "Event not found"},
		{"zero price", "/events/tm_1/report-price", `{"price": 0}`, http.StatusBadRequest, "Price must be positive"},
		{"negative price", "/events/tm_1/report-price", `{"price": -20}`, http.StatusBadRequest, "Price must be positive"},
		{"too high", "/events/tm_1/report-price", `{"price": 50000.01}`, http.StatusBadRequest, "unrealistically high"},
		{"missing price", "/events/tm_1/report-price", `{}`, http.StatusBadRequest, "Price is required"},
		{"bad url", "/events/tm_1/report-price", `{"price": 150, "source_url": "not a url"}`, http.StatusBadRequest, "valid URL"},
		{"valid", "/events/tm_1/report-price", `{"price": 50000, "source_url": "https://stubhub.com/x"}`, http.StatusOK, `"event_id":"tm_1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			w := env.do(http.MethodPost, tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantCode, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantMsg) {
				t.Errorf("body = %s, want %q", w.Body.String(), tt.wantMsg)
			}
			if tt.wantCode == http.StatusOK && len(env.repo.reports) != 1 {
				t.Errorf("reports = %d, want 1", len(env.repo.reports))
			}
		})
	}
}

func TestPredict(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/predict/tm_1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got predictionSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Prediction != "monitor" || got.Confidence != 0 || len(got.Projection) != 7 {
		t.Errorf("summary = %+v", got)
	}
	if got.Projection[6] <= got.Projection[0] {
		t.Errorf("projection should rise: %v", got.Projection)
	}
	if len(env.repo.logs) != 1 || env.repo.logs[0].EventID != "tm_1" || len(env.repo.logs[0].Components) == 0 {
		t.Errorf("prediction log = %+v", env.repo.logs)
	}

	if w := env.do(http.MethodGet, "/predict/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown event status = %d, want 404", w.Code)
	}
}

func TestPredictFallsBackOnRepositoryError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.getErr = errors.New("connection reset")

	w := env.do(http.MethodGet, "/predict/tm_1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"prediction":"monitor","confidence":0,"next_7_days_projection":[]}` {
		t.Errorf("body = %s", got)
	}
}

func TestPredictPrice(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/ml/predict_price", `{"id": "x1", "name": "Summer Festival", "city": "Austin", "date": "2026-03-01T18:00:00"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got pricing.PredictionResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.EventID != "x1" || got.Source != pricing.SourceHeuristicOnly || got.HeuristicDetails.Components.EventType != pricing.EventTypeFestival {
		t.Errorf("result = %+v", got)
	}

	if w := env.do(http.MethodPost, "/ml/predict_price", `{"id": "x1", "date": "2026-03-01"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", w.Code)
	}
	if w := env.do(http.MethodPost, "/ml/predict_price", `{"id": "x1", "name": "n", "date": "tomorrow"}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", w.Code)
	}
}

func TestPredictEventRequestOrdersPriceRange(t *testing.T) {
	date := testNow.Add(30 * 24 * time.Hour)
	tests := []struct {
		name              string
		low, high         *float64
		wantLow, wantHigh *float64
	}{
		{"inverted pair swapped", model.Float64Ptr(200), model.Float64Ptr(50), model.Float64Ptr(50), model.Float64Ptr(200)},
		{"ordered pair kept", model.Float64Ptr(50), model.Float64Ptr(200), model.Float64Ptr(50), model.Float64Ptr(200)},
		{"only high", nil, model.Float64Ptr(80), nil, model.Float64Ptr(80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := predictEventRequest{ID: "x1", Name: "Summer Festival", PriceLow: tt.low, PriceHigh: tt.high}
			e := req.toEvent(date)
			if !samePrice(e.PriceLow, tt.wantLow) || !samePrice(e.PriceHigh, tt.wantHigh) {
				t.Errorf("prices = %v/%v, want %v/%v", e.PriceLow, e.PriceHigh, tt.wantLow, tt.wantHigh)
			}
			if !e.Date.Equal(date) {
				t.Errorf("Date = %v, want %v", e.Date, date)
			}
		})
	}
}

func TestPredictPriceAcceptsInvertedRange(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(http.MethodPost, "/ml/predict_price", `{"id": "x2", "name": "Jazz Night", "date": "2026-03-01", "price_low": 200, "price_high": 50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got pricing.PredictionResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PredLow > got.PredHigh {
		t.Errorf("pred range %v > %v", got.PredLow, got.PredHigh)
	}
}

func samePrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestReloadModel(t *testing.T) {
	if w := newTestEnv(t, nil).do(http.MethodPost, "/ml/reload", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("no reloader status = %d, want 503", w.Code)
	}
	if w := newTestEnv(t, &fakeReloader{}).do(http.MethodPost, "/ml/reload", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "2026.01") {
		t.Errorf("reload status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := newTestEnv(t, &fakeReloader{err: errors.New("bad file")}).do(http.MethodPost, "/ml/reload", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("failed reload status = %d, want 500", w.Code)
	}
}

func TestSources(t *testing.T) {
	env := newTestEnv(t, nil)
	if w := env.do(http.MethodGet, "/sources", ""); !strings.Contains(w.Body.String(), "seatgeek") {
		t.Errorf("sources body = %s", w.Body.String())
	}
	w := env.do(http.MethodGet, "/sources/seatgeek/events?query=knicks", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Errorf("fetch status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := env.do(http.MethodGet, "/sources/stubhub/events", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown source status = %d, want 404", w.Code)
	}
}
