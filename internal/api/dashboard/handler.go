package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"runway/internal/domain/calendar"
	"runway/internal/domain/company"
	"runway/internal/domain/pricing"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

const (
	dateLayout       = "2006-01-02"
	maxForecastRows  = 30
	defaultRowsLimit = maxForecastRows
)

// Handler serves the read-only query API over the collected data
type Handler struct {
	companies company.Repository
	events    calendar.Repository
	prices    pricing.PriceRepository
	impacts   pricing.ImpactRepository
	forecasts pricing.ForecastRepository
	log       *logger.Logger
}

// New creates a dashboard handler
func New(
	companies company.Repository,
	events calendar.Repository,
	prices pricing.PriceRepository,
	impacts pricing.ImpactRepository,
	forecasts pricing.ForecastRepository,
) *Handler {
	return &Handler{
		companies: companies,
		events:    events,
		prices:    prices,
		impacts:   impacts,
		forecasts: forecasts,
		log:       logger.Get().With("component", "dashboard_api"),
	}
}

// Register mounts every dashboard route onto mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/companies", h.handleCompanies)
	mux.HandleFunc("GET /api/events", h.handleEvents)
	mux.HandleFunc("GET /api/prices/{ticker}", h.handlePrices)
	mux.HandleFunc("GET /api/forecast/{ticker}", h.handleForecast)
	mux.HandleFunc("GET /api/impacts/{event_id}", h.handleImpacts)
	mux.HandleFunc("GET /api/impacts/{event_id}/average", h.handleImpactAverage)
}

type companyResponse struct {
	ID     int64  `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

type eventResponse struct {
	EventID     int64  `json:"event_id"`
	EventDate   string `json:"event_date"`
	Description string `json:"description"`
}

type pricePointResponse struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type forecastPointResponse struct {
	ForecastDate  string  `json:"forecast_date"`
	ForecastPrice float64 `json:"forecast_price"`
}

type impactResponse struct {
	CompanyID        int64   `json:"company_id"`
	EventDate        string  `json:"event_date"`
	EventDescription string  `json:"event_description"`
	PreEventPrice    float64 `json:"pre_event_price"`
	PostEventPrice   float64 `json:"post_event_price"`
	Impact           float64 `json:"impact"`
}

type impactAverageResponse struct {
	EventID       int64   `json:"event_id"`
	Samples       int     `json:"samples"`
	AverageImpact float64 `json:"average_impact"`
}

func (h *Handler) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyResponse{ID: c.ID, Ticker: c.Ticker, Name: c.Name})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListAllEvents(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			EventID:     e.EventID,
			EventDate:   e.EventDate.Format(dateLayout),
			Description: e.Description,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePrices(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolveTicker(w, r)
	if !ok {
		return
	}

	series, err := h.prices.GetSeries(r.Context(), c.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]pricePointResponse, 0, len(series))
	for _, p := range series {
		out = append(out, pricePointResponse{
			Date:  p.Date.Format(dateLayout),
			Close: p.Close,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolveTicker(w, r)
	if !ok {
		return
	}

	limit := defaultRowsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeErrorMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	points, err := h.forecasts.GetLatest(r.Context(), c.ID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]forecastPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, forecastPointResponse{
			ForecastDate:  p.ForecastDate.Format(dateLayout),
			ForecastPrice: p.ForecastPrice,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleImpacts(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.parseEventID(w, r)
	if !ok {
		return
	}

	facts, err := h.impacts.GetByEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]impactResponse, 0, len(facts))
	for _, f := range facts {
		out = append(out, impactResponse{
			CompanyID:        f.CompanyID,
			EventDate:        f.EventDate.Format(dateLayout),
			EventDescription: f.EventDescription,
			PreEventPrice:    f.PreEventPrice,
			PostEventPrice:   f.PostEventPrice,
			Impact:           f.Impact,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleImpactAverage(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.parseEventID(w, r)
	if !ok {
		return
	}

	facts, err := h.impacts.GetByEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(facts) == 0 {
		h.writeErrorMessage(w, http.StatusNotFound, "no impact facts for event")
		return
	}

	sum := decimal.Zero
	for _, f := range facts {
		sum = sum.Add(decimal.NewFromFloat(f.Impact))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(facts))))

	h.writeJSON(w, http.StatusOK, impactAverageResponse{
		EventID:       eventID,
		Samples:       len(facts),
		AverageImpact: avg.InexactFloat64(),
	})
}

func (h *Handler) resolveTicker(w http.ResponseWriter, r *http.Request) (*company.Company, bool) {
	ticker := r.PathValue("ticker")
	if ticker == "" {
		h.writeErrorMessage(w, http.StatusBadRequest, "ticker is required")
		return nil, false
	}

	c, err := h.companies.GetByTicker(r.Context(), ticker)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return c, true
}

func (h *Handler) parseEventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	eventID, err := strconv.ParseInt(r.PathValue("event_id"), 10, 64)
	if err != nil || eventID < 1 {
		h.writeErrorMessage(w, http.StatusBadRequest, "event_id must be a positive integer")
		return 0, false
	}
	return eventID, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		h.writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, errors.ErrInvalidInput):
		h.writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("Query failed", "error", err)
		h.writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
