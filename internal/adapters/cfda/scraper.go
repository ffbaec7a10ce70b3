package cfda

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"runway/internal/adapters/config"
	"runway/internal/domain/calendar"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

// Selectors for the important-dates grid on cfda.com
const (
	gridItemSelector = ".p-important-dates__year__grid__item"
)

// extractItemsJS pulls the raw date/description pairs out of the rendered grid.
// The pages are client-side rendered, so a plain HTTP GET returns an empty grid.
const extractItemsJS = `
Array.from(document.querySelectorAll('.p-important-dates__year__grid__item')).map(function(item) {
	var meta = item.querySelector('.image-link__meta');
	var title = item.querySelector('.image-link__title');
	return {
		raw_date: meta ? meta.textContent.trim() : '',
		description: title ? title.textContent.trim() : ''
	};
})
`

type rawItem struct {
	RawDate     string `json:"raw_date"`
	Description string `json:"description"`
}

// Scraper loads CFDA fashion calendar pages in a headless browser and
// extracts the raw event entries they render
type Scraper struct {
	cfg     config.CalendarConfig
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewScraper creates a calendar scraper
func NewScraper(cfg config.CalendarConfig) *Scraper {
	return &Scraper{
		cfg: cfg,
		// One page load per 2 seconds keeps us far under any rate limiting
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		log:     logger.Get().With("component", "cfda_scraper"),
	}
}

// PageURLs returns the upcoming page plus one past-season page per
// configured lookback year, newest first
func (s *Scraper) PageURLs(now time.Time) []string {
	urls := make([]string, 0, s.cfg.PastYears+1)
	urls = append(urls, s.cfg.UpcomingURL)
	for i := 0; i < s.cfg.PastYears; i++ {
		urls = append(urls, fmt.Sprintf(s.cfg.PastSeasonURL, now.Year()-i))
	}
	return urls
}

// ScrapeAll visits every calendar page in a single browser session and
// returns the raw events found across all of them.
// A page that fails to load is logged and skipped rather than failing the
// whole pass.
func (s *Scraper) ScrapeAll(ctx context.Context, now time.Time) ([]calendar.RawEvent, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var (
		events []calendar.RawEvent
		failed int
	)

	urls := s.PageURLs(now)
	for _, url := range urls {
		if err := s.limiter.Wait(ctx); err != nil {
			return events, errors.Wrap(err, "rate limiter wait")
		}

		items, err := s.scrapePage(browserCtx, url)
		if err != nil {
			s.log.Warn("Calendar page scrape failed", "url", url, "error", err)
			failed++
			continue
		}

		for _, item := range items {
			if item.RawDate == "" || item.Description == "" {
				continue
			}
			events = append(events, calendar.RawEvent{
				RawDate:     item.RawDate,
				Description: item.Description,
			})
		}

		s.log.Debug("Calendar page scraped", "url", url, "items", len(items))
	}

	if failed == len(urls) {
		return nil, errors.Wrapf(errors.ErrScrapeFailed, "all %d calendar pages failed", failed)
	}

	return events, nil
}

func (s *Scraper) scrapePage(browserCtx context.Context, url string) ([]rawItem, error) {
	pageCtx, cancel := context.WithTimeout(browserCtx, s.cfg.PageTimeout)
	defer cancel()

	var items []rawItem
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(gridItemSelector, chromedp.ByQuery),
		chromedp.Evaluate(extractItemsJS, &items),
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrScrapeFailed, "load %s: %v", url, err)
	}

	return items, nil
}
