package marketdata

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"runway/internal/adapters/config"
	"runway/internal/adapters/yahoo"
	"runway/internal/domain/company"
	"runway/internal/domain/pricing"
	"runway/internal/metrics"
	"runway/internal/workers"
	"runway/pkg/errors"
)

// PriceCollectorWorker pulls daily close history for every tracked
// company and appends it to the price store
type PriceCollectorWorker struct {
	*workers.BaseWorker
	client        *yahoo.Client
	companies     company.Repository
	prices        pricing.PriceRepository
	tracked       []config.Company
	lookbackYears int
}

// NewPriceCollectorWorker creates a new price collector worker
func NewPriceCollectorWorker(
	client *yahoo.Client,
	companies company.Repository,
	prices pricing.PriceRepository,
	tracked []config.Company,
	lookbackYears int,
	interval time.Duration,
	enabled bool,
) *PriceCollectorWorker {
	return &PriceCollectorWorker{
		BaseWorker:    workers.NewBaseWorker("price_collector", interval, enabled),
		client:        client,
		companies:     companies,
		prices:        prices,
		tracked:       tracked,
		lookbackYears: lookbackYears,
	}
}

// Run executes one collection pass over all tracked companies
func (w *PriceCollectorWorker) Run(ctx context.Context) error {
	w.Log().Debug("Price collector: starting iteration", "companies", len(w.tracked))

	to := time.Now()
	from := to.AddDate(-w.lookbackYears, 0, 0)

	var total int64
	failed := 0
	for _, tracked := range w.tracked {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "price collection interrupted")
		}

		inserted, err := w.collectCompany(ctx, tracked, from, to)
		if err != nil {
			w.Log().Error("Failed to collect prices",
				"ticker", tracked.Ticker,
				"error", err,
			)
			failed++
			continue
		}
		total += inserted
	}

	if failed == len(w.tracked) {
		return errors.Wrapf(errors.ErrPriceFetchFailed, "all %d tickers failed", failed)
	}

	w.Log().Info("Price collection completed",
		"companies", len(w.tracked),
		"failed", failed,
		"new_points", humanize.Comma(total),
	)
	return nil
}

func (w *PriceCollectorWorker) collectCompany(ctx context.Context, tracked config.Company, from, to time.Time) (int64, error) {
	c, err := w.companies.GetOrCreate(ctx, tracked.Ticker, tracked.Name)
	if err != nil {
		return 0, errors.Wrap(err, "resolve company")
	}

	closes, err := w.client.DailyCloses(ctx, tracked.Ticker, from, to)
	if err != nil {
		return 0, errors.Wrap(err, "fetch daily closes")
	}
	if len(closes) == 0 {
		w.Log().Warn("No price history returned", "ticker", tracked.Ticker)
		return 0, nil
	}

	points := make([]pricing.PricePoint, 0, len(closes))
	for _, dc := range closes {
		points = append(points, pricing.PricePoint{
			CompanyID: c.ID,
			Date:      dc.Date,
			Close:     dc.Close,
		})
	}

	inserted, err := w.prices.InsertPrices(ctx, points)
	if err != nil {
		return 0, errors.Wrap(err, "save price points")
	}

	metrics.PricePointsUpserted.Add(float64(inserted))
	return inserted, nil
}
