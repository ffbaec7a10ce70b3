package forecast

import (
	"context"
	"time"

	"runway/internal/domain/pricing"
	"runway/pkg/errors"
)

// Generator fits a per-company model over the full price history and
// projects the configured number of business days forward.
type Generator struct {
	horizon    int
	fitTimeout time.Duration
}

// NewGenerator creates a forecast generator. horizon is the number of
// business days to project; fitTimeout bounds the model fit, which is
// the only genuinely long-running step of the pipeline.
func NewGenerator(horizon int, fitTimeout time.Duration) *Generator {
	return &Generator{horizon: horizon, fitTimeout: fitTimeout}
}

// Generate fits ARIMA(1,1,1) over the company's close-price series and
// returns one ForecastPoint per business day after the last observed
// date. The date index is discarded for fitting and reattached for
// output.
//
// Errors (insufficient history, non-convergence, fit timeout) are
// recoverable per company: the caller logs and skips the forecast step
// without failing the batch. If the projected values and the generated
// business-day index ever disagree in length, nothing is emitted.
func (g *Generator) Generate(ctx context.Context, companyID int64, series []pricing.PricePoint) ([]pricing.ForecastPoint, error) {
	if len(series) == 0 {
		return nil, errors.Wrap(errors.ErrInsufficientHistory, "empty price series")
	}

	closes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Close
	}
	lastDate := series[len(series)-1].Date

	fitCtx := ctx
	if g.fitTimeout > 0 {
		var cancel context.CancelFunc
		fitCtx, cancel = context.WithTimeout(ctx, g.fitTimeout)
		defer cancel()
	}

	model, err := Fit(fitCtx, closes)
	if err != nil {
		return nil, err
	}

	values := model.Forecast(g.horizon)
	index := BusinessDayIndex(lastDate, g.horizon)

	// Fail closed on any length mismatch rather than emit misaligned
	// dates and prices
	if len(values) != len(index) {
		return nil, errors.Wrapf(errors.ErrForecastFit,
			"forecast length %d does not match index length %d", len(values), len(index))
	}

	points := make([]pricing.ForecastPoint, len(values))
	for i := range values {
		if !isFinite(values[i]) {
			return nil, errors.Wrap(errors.ErrForecastFit, "non-finite forecast value")
		}
		points[i] = pricing.ForecastPoint{
			CompanyID:     companyID,
			ForecastDate:  index[i],
			ForecastPrice: values[i],
		}
	}

	return points, nil
}

// Horizon returns the configured projection window length
func (g *Generator) Horizon() int {
	return g.horizon
}
