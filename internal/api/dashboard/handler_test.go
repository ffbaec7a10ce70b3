package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runway/internal/domain/calendar"
	"runway/internal/domain/company"
	"runway/internal/domain/pricing"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

func init() {
	_ = logger.Init("error", "test")
}

type stubCompanyRepo struct {
	byTicker map[string]*company.Company
}

func (r *stubCompanyRepo) GetOrCreate(ctx context.Context, ticker, name string) (*company.Company, error) {
	return nil, errors.ErrInternal
}

func (r *stubCompanyRepo) GetByTicker(ctx context.Context, ticker string) (*company.Company, error) {
	if c, ok := r.byTicker[ticker]; ok {
		return c, nil
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "company %s", ticker)
}

func (r *stubCompanyRepo) List(ctx context.Context) ([]company.Company, error) {
	out := make([]company.Company, 0, len(r.byTicker))
	for _, c := range r.byTicker {
		out = append(out, *c)
	}
	return out, nil
}

type stubCalendarRepo struct {
	events []calendar.DatedEvent
}

func (r *stubCalendarRepo) GetOrCreateDefinition(ctx context.Context, description string) (*calendar.EventDefinition, error) {
	return nil, errors.ErrInternal
}

func (r *stubCalendarRepo) InsertOccurrence(ctx context.Context, eventID int64, eventDate time.Time) error {
	return errors.ErrInternal
}

func (r *stubCalendarRepo) ListPastEvents(ctx context.Context, before time.Time) ([]calendar.DatedEvent, error) {
	return nil, nil
}

func (r *stubCalendarRepo) ListAllEvents(ctx context.Context) ([]calendar.DatedEvent, error) {
	return r.events, nil
}

func (r *stubCalendarRepo) ListDefinitions(ctx context.Context) ([]calendar.EventDefinition, error) {
	return nil, nil
}

type stubPriceRepo struct {
	series map[int64][]pricing.PricePoint
}

func (r *stubPriceRepo) InsertPrices(ctx context.Context, points []pricing.PricePoint) (int64, error) {
	return 0, errors.ErrInternal
}

func (r *stubPriceRepo) GetSeries(ctx context.Context, companyID int64) ([]pricing.PricePoint, error) {
	return r.series[companyID], nil
}

type stubImpactRepo struct {
	byEvent map[int64][]pricing.ImpactFact
}

func (r *stubImpactRepo) InsertFacts(ctx context.Context, facts []pricing.ImpactFact) (int64, error) {
	return 0, errors.ErrInternal
}

func (r *stubImpactRepo) GetByEvent(ctx context.Context, eventID int64) ([]pricing.ImpactFact, error) {
	return r.byEvent[eventID], nil
}

type stubForecastRepo struct {
	latest []pricing.ForecastPoint
}

func (r *stubForecastRepo) InsertPoints(ctx context.Context, points []pricing.ForecastPoint) (int64, error) {
	return 0, errors.ErrInternal
}

func (r *stubForecastRepo) GetLatest(ctx context.Context, companyID int64, limit int) ([]pricing.ForecastPoint, error) {
	if limit > len(r.latest) {
		limit = len(r.latest)
	}
	return r.latest[:limit], nil
}

func testServer(t *testing.T) (*httptest.Server, *stubImpactRepo) {
	t.Helper()

	lvmuy := &company.Company{ID: 1, Ticker: "LVMUY", Name: "Louis Vuitton"}
	impacts := &stubImpactRepo{byEvent: map[int64][]pricing.ImpactFact{
		1: {
			{CompanyID: 1, EventDate: time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), EventDescription: "Fashion Week", PreEventPrice: 100, PostEventPrice: 105.5, Impact: 5.5},
			{CompanyID: 2, EventDate: time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), EventDescription: "Fashion Week", PreEventPrice: 50, PostEventPrice: 52.5, Impact: 2.5},
		},
	}}

	forecasts := make([]pricing.ForecastPoint, 40)
	for i := range forecasts {
		forecasts[i] = pricing.ForecastPoint{
			CompanyID:     1,
			ForecastDate:  time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			ForecastPrice: 100 + float64(i),
		}
	}

	h := New(
		&stubCompanyRepo{byTicker: map[string]*company.Company{"LVMUY": lvmuy}},
		&stubCalendarRepo{events: []calendar.DatedEvent{
			{OccurrenceID: 1, EventID: 1, EventDate: time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), Description: "Fashion Week"},
		}},
		&stubPriceRepo{series: map[int64][]pricing.PricePoint{
			1: {{CompanyID: 1, Date: time.Date(2024, time.September, 9, 0, 0, 0, 0, time.UTC), Close: 100}},
		}},
		impacts,
		&stubForecastRepo{latest: forecasts},
	)

	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, impacts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHandler_Companies(t *testing.T) {
	srv, _ := testServer(t)

	var got []companyResponse
	code := getJSON(t, srv.URL+"/api/companies", &got)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, got, 1)
	assert.Equal(t, "LVMUY", got[0].Ticker)
}

func TestHandler_Events(t *testing.T) {
	srv, _ := testServer(t)

	var got []eventResponse
	code := getJSON(t, srv.URL+"/api/events", &got)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-09-10", got[0].EventDate)
	assert.Equal(t, "Fashion Week", got[0].Description)
}

func TestHandler_Prices(t *testing.T) {
	srv, _ := testServer(t)

	var got []pricePointResponse
	code := getJSON(t, srv.URL+"/api/prices/LVMUY", &got)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-09-09", got[0].Date)
	assert.Equal(t, 100.0, got[0].Close)
}

func TestHandler_Prices_UnknownTicker(t *testing.T) {
	srv, _ := testServer(t)

	code := getJSON(t, srv.URL+"/api/prices/ZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandler_Forecast_CappedAtThirty(t *testing.T) {
	srv, _ := testServer(t)

	var got []forecastPointResponse
	code := getJSON(t, srv.URL+"/api/forecast/LVMUY", &got)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, got, 30)

	// An explicit limit above the cap is still capped
	got = nil
	code = getJSON(t, srv.URL+"/api/forecast/LVMUY?limit=100", &got)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, got, 30)

	// A smaller limit is honored
	got = nil
	code = getJSON(t, srv.URL+"/api/forecast/LVMUY?limit=5", &got)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, got, 5)
}

func TestHandler_Forecast_BadLimit(t *testing.T) {
	srv, _ := testServer(t)

	code := getJSON(t, srv.URL+"/api/forecast/LVMUY?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandler_Impacts(t *testing.T) {
	srv, _ := testServer(t)

	var got []impactResponse
	code := getJSON(t, srv.URL+"/api/impacts/1", &got)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, got, 2)
	assert.Equal(t, 5.5, got[0].Impact)
}

func TestHandler_Impacts_BadEventID(t *testing.T) {
	srv, _ := testServer(t)

	code := getJSON(t, srv.URL+"/api/impacts/xyz", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandler_ImpactAverage(t *testing.T) {
	srv, _ := testServer(t)

	var got impactAverageResponse
	code := getJSON(t, srv.URL+"/api/impacts/1/average", &got)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), got.EventID)
	assert.Equal(t, 2, got.Samples)
	assert.Equal(t, 4.0, got.AverageImpact)
}

func TestHandler_ImpactAverage_NoFacts(t *testing.T) {
	srv, _ := testServer(t)

	code := getJSON(t, srv.URL+"/api/impacts/42/average", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
