package calendar

import (
	"context"
	"time"

	"runway/internal/domain/calendar"
	"runway/internal/metrics"
	"runway/internal/workers"
	"runway/pkg/errors"
)

// PageScraper yields the raw event entries from the calendar pages
type PageScraper interface {
	ScrapeAll(ctx context.Context, now time.Time) ([]calendar.RawEvent, error)
}

// ScraperWorker refreshes the fashion calendar from cfda.com
// One pass covers the upcoming page plus the configured past seasons
type ScraperWorker struct {
	*workers.BaseWorker
	scraper PageScraper
	repo    calendar.Repository
}

// NewScraperWorker creates a new calendar scraper worker
func NewScraperWorker(
	scraper PageScraper,
	repo calendar.Repository,
	interval time.Duration,
	enabled bool,
) *ScraperWorker {
	return &ScraperWorker{
		BaseWorker: workers.NewBaseWorker("calendar_scraper", interval, enabled),
		scraper:    scraper,
		repo:       repo,
	}
}

// Run executes one scrape-and-store pass
func (w *ScraperWorker) Run(ctx context.Context) error {
	w.Log().Debug("Calendar scraper: starting iteration")

	rawEvents, err := w.scraper.ScrapeAll(ctx, time.Now())
	if err != nil {
		return errors.Wrap(err, "scrape calendar pages")
	}

	metrics.CalendarEventsScraped.Add(float64(len(rawEvents)))

	saved := 0
	skipped := 0
	for _, raw := range rawEvents {
		eventDate, err := calendar.ParseEventDate(raw.RawDate)
		if err != nil {
			// Malformed dates are expected on some entries; skip, never abort
			metrics.CalendarDateParseFailures.Inc()
			w.Log().Warn("Skipping unparseable event date",
				"raw_date", raw.RawDate,
				"description", raw.Description,
			)
			skipped++
			continue
		}

		description := calendar.NormalizeDescription(raw.Description)
		if description == "" {
			skipped++
			continue
		}

		def, err := w.repo.GetOrCreateDefinition(ctx, description)
		if err != nil {
			w.Log().Error("Failed to resolve event definition",
				"description", description,
				"error", err,
			)
			continue
		}

		if err := w.repo.InsertOccurrence(ctx, def.ID, eventDate); err != nil {
			w.Log().Error("Failed to save event occurrence",
				"description", description,
				"event_date", eventDate.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		saved++
	}

	w.Log().Info("Calendar scrape completed",
		"scraped", len(rawEvents),
		"saved", saved,
		"skipped", skipped,
	)
	return nil
}
