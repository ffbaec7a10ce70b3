package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runway_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "runway_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Calendar scraping metrics
	CalendarEventsScraped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "runway_calendar_events_scraped_total",
			Help: "Total number of calendar events scraped",
		},
	)

	CalendarDateParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "runway_calendar_date_parse_failures_total",
			Help: "Total number of scraped dates rejected by the parser",
		},
	)

	CalendarScrapeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_calendar_scrape_errors_total",
			Help: "Total number of calendar page scrape errors",
		},
		[]string{"page"}, // page: upcoming|past_season
	)

	// Market data metrics
	PriceFetchCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_price_fetch_calls_total",
			Help: "Total number of price history fetch requests",
		},
		[]string{"ticker", "status"}, // status: success|error
	)

	PriceFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runway_price_fetch_latency_seconds",
			Help:    "Price history fetch latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"ticker"},
	)

	PricePointsUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "runway_price_points_upserted_total",
			Help: "Total number of price points written to storage",
		},
	)

	// Ingestion metrics
	ImpactFactsUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "runway_impact_facts_upserted_total",
			Help: "Total number of event impact facts written to storage",
		},
	)

	ForecastPointsUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "runway_forecast_points_upserted_total",
			Help: "Total number of forecast points written to storage",
		},
	)

	EventPriceLinksUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "runway_event_price_links_upserted_total",
			Help: "Total number of event/price links written to storage",
		},
	)

	ForecastFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_forecast_failures_total",
			Help: "Total number of companies skipped due to forecast failure",
		},
		[]string{"ticker"},
	)

	IngestionRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_ingestion_runs_total",
			Help: "Total number of ingestion pipeline runs",
		},
		[]string{"status"}, // status: success|partial|error
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"}, // status: success|error
	)
)

// Init registers all metrics with Prometheus
func Init() {
	// Worker metrics
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	// Calendar metrics
	prometheus.MustRegister(CalendarEventsScraped)
	prometheus.MustRegister(CalendarDateParseFailures)
	prometheus.MustRegister(CalendarScrapeErrors)

	// Market data metrics
	prometheus.MustRegister(PriceFetchCalls)
	prometheus.MustRegister(PriceFetchLatency)
	prometheus.MustRegister(PricePointsUpserted)

	// Ingestion metrics
	prometheus.MustRegister(ImpactFactsUpserted)
	prometheus.MustRegister(ForecastPointsUpserted)
	prometheus.MustRegister(EventPriceLinksUpserted)
	prometheus.MustRegister(ForecastFailures)
	prometheus.MustRegister(IngestionRuns)

	// Database metrics
	prometheus.MustRegister(DBQueries)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordPriceFetch records a price history fetch
func RecordPriceFetch(ticker string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	PriceFetchCalls.WithLabelValues(ticker, status).Inc()
	PriceFetchLatency.WithLabelValues(ticker).Observe(latency.Seconds())
}
