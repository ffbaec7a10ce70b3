package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runway/internal/adapters/config"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

func init() {
	_ = logger.Init("error", "test")
}

const chartFixture = `{
	"chart": {
		"result": [{
			"timestamp": [1704153600, 1704240000, 1704326400],
			"indicators": {
				"quote": [{
					"close": [100.0, null, 105.5]
				}]
			}
		}],
		"error": null
	}
}`

const errorFixture = `{
	"chart": {
		"result": null,
		"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
	}
}`

func testClient(baseURL string) *Client {
	return NewClient(config.MarketDataConfig{
		PriceAPIBaseURL: baseURL,
		RequestTimeout:  5 * time.Second,
		RequestsPerSec:  1000,
	})
}

func TestParseChart(t *testing.T) {
	closes, err := parseChart("LVMUY", []byte(chartFixture))
	require.NoError(t, err)
	require.Len(t, closes, 2, "null closes must be dropped")

	assert.Equal(t, 100.0, closes[0].Close)
	assert.Equal(t, 105.5, closes[1].Close)

	// Timestamps resolve to UTC midnight dates
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), closes[0].Date)
	assert.Equal(t, time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC), closes[1].Date)
}

func TestParseChart_APIError(t *testing.T) {
	_, err := parseChart("XXXX", []byte(errorFixture))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPriceFetchFailed))
	assert.Contains(t, err.Error(), "delisted")
}

func TestParseChart_Garbage(t *testing.T) {
	_, err := parseChart("LVMUY", []byte("not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPriceFetchFailed))
}

func TestDailyCloses(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	closes, err := client.DailyCloses(context.Background(), "LVMUY", from, to)
	require.NoError(t, err)
	assert.Len(t, closes, 2)
	assert.Equal(t, "/v8/finance/chart/LVMUY", gotPath)
}

func TestDailyCloses_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	_, err := client.DailyCloses(context.Background(), "LVMUY", time.Now().AddDate(-1, 0, 0), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRateLimitExceeded))
}

func TestDailyCloses_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	_, err := client.DailyCloses(context.Background(), "LVMUY", time.Now().AddDate(-1, 0, 0), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPriceFetchFailed))
}
