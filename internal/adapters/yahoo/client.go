package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"runway/internal/adapters/config"
	"runway/internal/metrics"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

// userAgent is required by the chart API; requests without one get 429s
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// DailyClose is one trading day's closing price for a ticker
type DailyClose struct {
	Date  time.Time
	Close float64
}

// chartResponse mirrors the subset of the v8 chart payload we read
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Client fetches daily price history from the Yahoo Finance chart API
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a price history client
func NewClient(cfg config.MarketDataConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.PriceAPIBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		log:        logger.Get().With("component", "yahoo_client"),
	}
}

// DailyCloses returns the daily closing prices for ticker between from and to.
// Days without a close (holidays, halts) are dropped.
func (c *Client) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]DailyClose, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait")
	}

	start := time.Now()
	closes, err := c.fetchCloses(ctx, ticker, from, to)
	metrics.RecordPriceFetch(ticker, time.Since(start), err)
	return closes, err
}

func (c *Client) fetchCloses(ctx context.Context, ticker string, from, to time.Time) ([]DailyClose, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, ticker, from.Unix(), to.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPriceFetchFailed, "%s: %v", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.Wrapf(errors.ErrRateLimitExceeded, "%s", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrPriceFetchFailed, "%s: status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPriceFetchFailed, "%s: read body: %v", ticker, err)
	}

	return parseChart(ticker, body)
}

func parseChart(ticker string, body []byte) ([]DailyClose, error) {
	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(errors.ErrPriceFetchFailed, "%s: decode: %v", ticker, err)
	}

	if payload.Chart.Error != nil {
		return nil, errors.Wrapf(errors.ErrPriceFetchFailed, "%s: %s: %s",
			ticker, payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, errors.Wrapf(errors.ErrPriceFetchFailed, "%s: empty result", ticker)
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, errors.Wrapf(errors.ErrPriceFetchFailed, "%s: no quote data", ticker)
	}

	quotes := result.Indicators.Quote[0].Close
	closes := make([]DailyClose, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quotes) || quotes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC()
		closes = append(closes, DailyClose{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Close: *quotes[i],
		})
	}

	return closes, nil
}
