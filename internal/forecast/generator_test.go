package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runway/internal/domain/pricing"
	"runway/pkg/errors"
)

func tradingSeries(companyID int64, n int, startClose float64) []pricing.PricePoint {
	series := make([]pricing.PricePoint, 0, n)
	day := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	for len(series) < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			series = append(series, pricing.PricePoint{
				CompanyID: companyID,
				Date:      day,
				Close:     startClose + 0.25*float64(len(series)),
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(30, 30*time.Second)
	series := tradingSeries(1, 200, 100)

	points, err := gen.Generate(context.Background(), 1, series)
	require.NoError(t, err)
	require.Len(t, points, 30)

	lastDate := series[len(series)-1].Date
	prev := lastDate
	for i, p := range points {
		assert.Equal(t, int64(1), p.CompanyID)
		assert.True(t, p.ForecastDate.After(prev), "dates must be strictly increasing")
		wd := p.ForecastDate.Weekday()
		assert.NotEqual(t, time.Saturday, wd, "point %d lands on a Saturday", i)
		assert.NotEqual(t, time.Sunday, wd, "point %d lands on a Sunday", i)
		assert.Greater(t, p.ForecastPrice, 0.0)
		prev = p.ForecastDate
	}
}

func TestGenerator_ShortSeries(t *testing.T) {
	gen := NewGenerator(30, time.Second)

	_, err := gen.Generate(context.Background(), 1, tradingSeries(1, 2, 100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientHistory))
}

func TestGenerator_EmptySeries(t *testing.T) {
	gen := NewGenerator(30, time.Second)

	_, err := gen.Generate(context.Background(), 1, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientHistory))
}

func TestGenerator_Horizon(t *testing.T) {
	assert.Equal(t, 30, NewGenerator(30, time.Second).Horizon())
}
