package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"runway/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Server        ServerConfig
	Calendar      CalendarConfig
	MarketData    MarketDataConfig
	Forecast      ForecastConfig
	Ingest        IngestConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"runway"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`

	// Startup readiness retries (the store may come up after us)
	ConnectAttempts   int           `envconfig:"POSTGRES_CONNECT_ATTEMPTS" default:"10"`
	ConnectMinBackoff time.Duration `envconfig:"POSTGRES_CONNECT_MIN_BACKOFF" default:"1s"`
	ConnectMaxBackoff time.Duration `envconfig:"POSTGRES_CONNECT_MAX_BACKOFF" default:"30s"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type ServerConfig struct {
	Port    int    `envconfig:"SERVER_PORT" default:"8080"`
	Version string `envconfig:"APP_VERSION" default:"dev"`
}

type CalendarConfig struct {
	// Calendar pages to scrape: one upcoming page plus one page per past season
	UpcomingURL   string `envconfig:"CALENDAR_UPCOMING_URL" default:"https://cfda.com/fashion-calendar/important-dates/upcoming"`
	PastSeasonURL string `envconfig:"CALENDAR_PAST_SEASON_URL" default:"https://cfda.com/fashion-calendar/past-seasons/%d"`
	PastYears     int    `envconfig:"CALENDAR_PAST_YEARS" default:"5"`

	PageTimeout time.Duration `envconfig:"CALENDAR_PAGE_TIMEOUT" default:"60s"`
	Headless    bool          `envconfig:"CALENDAR_HEADLESS" default:"true"`
}

type MarketDataConfig struct {
	// Tracked companies as "TICKER:Display Name" pairs
	TrackedCompanies []string `envconfig:"TRACKED_COMPANIES" default:"LVMUY:Louis Vuitton,PPRUY:Kering,NKE:Nike,HESAY:Hermes,BURBY:Burberry,PRDSY:Prada,RL:Ralph Lauren,CPRI:Capri Holdings,TPR:Tapestry"`

	PriceAPIBaseURL string        `envconfig:"PRICE_API_BASE_URL" default:"https://query1.finance.yahoo.com"`
	LookbackYears   int           `envconfig:"PRICE_LOOKBACK_YEARS" default:"5"`
	RequestTimeout  time.Duration `envconfig:"PRICE_REQUEST_TIMEOUT" default:"30s"`
	RequestsPerSec  float64       `envconfig:"PRICE_REQUESTS_PER_SEC" default:"2"`
}

type ForecastConfig struct {
	HorizonDays int           `envconfig:"FORECAST_HORIZON_DAYS" default:"30"`
	FitTimeout  time.Duration `envconfig:"FORECAST_FIT_TIMEOUT" default:"30s"`
}

type IngestConfig struct {
	// 1 preserves the reference sequential-per-company behavior
	MaxConcurrency int `envconfig:"INGEST_MAX_CONCURRENCY" default:"1"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for all background workers
type WorkerConfig struct {
	CalendarScraperInterval time.Duration `envconfig:"WORKER_CALENDAR_SCRAPER_INTERVAL" default:"24h"`
	CalendarScraperEnabled  bool          `envconfig:"WORKER_CALENDAR_SCRAPER_ENABLED" default:"true"`

	PriceCollectorInterval time.Duration `envconfig:"WORKER_PRICE_COLLECTOR_INTERVAL" default:"6h"`
	PriceCollectorEnabled  bool          `envconfig:"WORKER_PRICE_COLLECTOR_ENABLED" default:"true"`

	IngestionInterval time.Duration `envconfig:"WORKER_INGESTION_INTERVAL" default:"6h"`
	IngestionEnabled  bool          `envconfig:"WORKER_INGESTION_ENABLED" default:"true"`
}

// Company is one tracked ticker/name pair
type Company struct {
	Ticker string
	Name   string
}

// Companies parses TRACKED_COMPANIES into ticker/name pairs.
// Entries without a display name keep the ticker as the name.
func (m MarketDataConfig) Companies() []Company {
	out := make([]Company, 0, len(m.TrackedCompanies))
	for _, entry := range m.TrackedCompanies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ticker, name, found := strings.Cut(entry, ":")
		ticker = strings.TrimSpace(ticker)
		if ticker == "" {
			continue
		}
		if !found || strings.TrimSpace(name) == "" {
			name = ticker
		}
		out = append(out, Company{Ticker: ticker, Name: strings.TrimSpace(name)})
	}
	return out
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
