package ingestion

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"runway/internal/adapters/config"
	"runway/internal/analysis"
	"runway/internal/domain/calendar"
	"runway/internal/forecast"
	"runway/internal/metrics"
	"runway/internal/repository/postgres"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

// Store is the persistence handle the orchestrator drives: plain
// repositories for read-only work and transaction-scoped bundles for
// each company's unit of work.
type Store interface {
	Repos() postgres.Repos
	WithinTx(ctx context.Context, fn func(postgres.Repos) error) error
}

// Service is the ingestion orchestrator. For every tracked company it
// resolves the company record, computes impact facts against all past
// event occurrences, fits the price forecast, and links occurrences to
// exact-date prices, all committed as one transaction per company.
type Service struct {
	store      Store
	forecaster *forecast.Generator
	companies  []config.Company
	maxConc    int
	log        *logger.Logger
}

// Report summarizes one batch run. A batch always completes: failures
// are recorded here, not propagated.
type Report struct {
	RunID            uuid.UUID
	Companies        int
	Succeeded        int
	Failed           []string
	ForecastsSkipped []string
	ImpactFacts      int64
	ForecastPoints   int64
	EventPriceLinks  int64
	Duration         time.Duration
}

// NewService creates the ingestion orchestrator
func NewService(store Store, forecaster *forecast.Generator, companies []config.Company, maxConcurrency int) *Service {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Service{
		store:      store,
		forecaster: forecaster,
		companies:  companies,
		maxConc:    maxConcurrency,
		log:        logger.Get().With("service", "ingestion"),
	}
}

// Run executes one batch over all tracked companies. Companies are
// independent, so up to maxConcurrency of them run in parallel; each
// one's store writes stay isolated in its own transaction. Per-company
// failures are logged and reported, never propagated: the batch
// commits whatever subset succeeded.
func (s *Service) Run(ctx context.Context) Report {
	start := time.Now()
	report := Report{
		RunID:     uuid.New(),
		Companies: len(s.companies),
	}
	log := s.log.With("run_id", report.RunID.String())

	// Event occurrences are read-only for this pipeline, so one
	// snapshot up front serves every company without coordination.
	repos := s.store.Repos()
	pastEvents, err := repos.Calendar.ListPastEvents(ctx, time.Now())
	if err != nil {
		log.Error("Failed to load past events", "error", err)
		report.Duration = time.Since(start)
		return report
	}
	allEvents, err := repos.Calendar.ListAllEvents(ctx)
	if err != nil {
		log.Error("Failed to load event occurrences", "error", err)
		report.Duration = time.Since(start)
		return report
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.maxConc)
	)

	for _, c := range s.companies {
		// Cancellation stops before the next company's unit of work
		// begins; companies already dispatched finish their commit.
		if ctx.Err() != nil {
			log.Warn("Batch cancelled, skipping remaining companies")
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(c config.Company) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.processCompany(ctx, c, pastEvents, allEvents)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("Company ingestion failed", "ticker", c.Ticker, "error", err)
				report.Failed = append(report.Failed, c.Ticker)
				return
			}
			report.Succeeded++
			report.ImpactFacts += result.facts
			report.ForecastPoints += result.forecastPoints
			report.EventPriceLinks += result.links
			if result.forecastSkipped {
				report.ForecastsSkipped = append(report.ForecastsSkipped, c.Ticker)
			}
		}(c)
	}

	wg.Wait()
	report.Duration = time.Since(start)

	log.Info("Ingestion batch complete",
		"companies", report.Companies,
		"succeeded", report.Succeeded,
		"failed", len(report.Failed),
		"forecasts_skipped", report.ForecastsSkipped,
		"impact_facts", humanize.Comma(report.ImpactFacts),
		"forecast_points", humanize.Comma(report.ForecastPoints),
		"event_price_links", humanize.Comma(report.EventPriceLinks),
		"duration", report.Duration,
	)

	return report
}

type companyResult struct {
	facts           int64
	forecastPoints  int64
	links           int64
	forecastSkipped bool
}

// processCompany runs steps 1-5 for one company inside a single
// transaction. A forecast fit failure is recoverable: the company's
// impact facts and links still commit, only the forecast step is
// skipped.
func (s *Service) processCompany(ctx context.Context, c config.Company, pastEvents, allEvents []calendar.DatedEvent) (companyResult, error) {
	var result companyResult

	// The transaction must never be interrupted mid-commit: once a
	// company's unit of work has started it runs to completion even if
	// the batch gets cancelled.
	txCtx := context.WithoutCancel(ctx)

	err := s.store.WithinTx(txCtx, func(r postgres.Repos) error {
		comp, err := r.Companies.GetOrCreate(txCtx, c.Ticker, c.Name)
		if err != nil {
			return errors.Wrapf(err, "get or create company %s", c.Ticker)
		}

		series, err := r.Prices.GetSeries(txCtx, comp.ID)
		if err != nil {
			return errors.Wrapf(err, "load price series for %s", c.Ticker)
		}

		facts := analysis.ComputeImpacts(comp.ID, series, pastEvents)
		inserted, err := r.Impacts.InsertFacts(txCtx, facts)
		if err != nil {
			return errors.Wrapf(err, "insert impact facts for %s", c.Ticker)
		}
		result.facts = inserted
		metrics.ImpactFactsUpserted.Add(float64(inserted))

		points, err := s.forecaster.Generate(ctx, comp.ID, series)
		switch {
		case err == nil:
			n, err := r.Forecasts.InsertPoints(txCtx, points)
			if err != nil {
				return errors.Wrapf(err, "insert forecast points for %s", c.Ticker)
			}
			result.forecastPoints = n
			metrics.ForecastPointsUpserted.Add(float64(n))

		case errors.Is(err, errors.ErrForecastFit) || errors.Is(err, errors.ErrInsufficientHistory):
			s.log.Warn("Forecast skipped", "ticker", c.Ticker, "error", err)
			result.forecastSkipped = true
			metrics.ForecastFailures.WithLabelValues(c.Ticker).Inc()

		default:
			return errors.Wrapf(err, "forecast for %s", c.Ticker)
		}

		links := analysis.ExactDateLinks(comp.ID, series, allEvents)
		n, err := r.Links.InsertLinks(txCtx, links)
		if err != nil {
			return errors.Wrapf(err, "insert event price links for %s", c.Ticker)
		}
		result.links = n

		return nil
	})

	return result, err
}
