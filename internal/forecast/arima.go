package forecast

import (
	"context"
	"math"

	"runway/pkg/errors"
)

// The model order is fixed at ARIMA(1,1,1): one autoregressive lag, one
// order of differencing, one moving-average lag. No order search and no
// stationarity check are performed; the order is part of the product
// contract, not a tuning knob.
const (
	// minObservations is the shortest series the model will accept.
	// Differencing consumes one point and the CSS recursion another,
	// so anything below this has no usable error terms to fit on.
	minObservations = 5

	fitTolerance = 1e-10
	fitMaxIter   = 2000
)

// Model is a fitted ARIMA(1,1,1): parameters plus the state needed to
// project forward from the end of the observed series.
type Model struct {
	Const float64 // constant term of the differenced process
	AR    float64 // autoregressive coefficient
	MA    float64 // moving-average coefficient

	lastValue float64 // last observed level
	lastDiff  float64 // last observed first difference
	lastError float64 // last in-sample residual
}

// Fit estimates ARIMA(1,1,1) parameters over the full series by
// minimizing the conditional sum of squared residuals. Series order
// must be chronological. Returns ErrInsufficientHistory for series too
// short to difference and fit, and ErrForecastFit when the optimizer
// fails or lands on a non-finite optimum. Cancellation of ctx aborts
// the fit.
func Fit(ctx context.Context, series []float64) (*Model, error) {
	if len(series) < minObservations {
		return nil, errors.Wrapf(errors.ErrInsufficientHistory,
			"%d observations, need at least %d", len(series), minObservations)
	}

	diffs := make([]float64, len(series)-1)
	for i := range diffs {
		diffs[i] = series[i+1] - series[i]
	}

	var mean float64
	for _, d := range diffs {
		mean += d
	}
	mean /= float64(len(diffs))

	objective := func(params []float64) float64 {
		return cssObjective(diffs, params[0], params[1], params[2])
	}

	start := []float64{mean, 0.1, 0.1}
	params, err := nelderMead(ctx, objective, start, fitTolerance, fitMaxIter)
	if err != nil {
		if errors.Is(err, errors.ErrTimeout) {
			return nil, errors.Wrap(errors.ErrForecastFit, err.Error())
		}
		return nil, err
	}

	c, phi, theta := params[0], params[1], params[2]
	if !isFinite(c) || !isFinite(phi) || !isFinite(theta) {
		return nil, errors.Wrap(errors.ErrForecastFit, "non-finite parameter estimate")
	}

	// Replay the residual recursion at the optimum to capture the
	// terminal state the forecast starts from
	residuals := cssResiduals(diffs, c, phi, theta)

	return &Model{
		Const:     c,
		AR:        phi,
		MA:        theta,
		lastValue: series[len(series)-1],
		lastDiff:  diffs[len(diffs)-1],
		lastError: residuals[len(residuals)-1],
	}, nil
}

// Forecast projects the next steps levels. The one-step-ahead forecast
// uses the last observed difference and residual; beyond that, future
// shocks are zero so only the AR term recurses. Differences are then
// accumulated back onto the last observed level.
func (m *Model) Forecast(steps int) []float64 {
	out := make([]float64, 0, steps)

	diff := m.Const + m.AR*m.lastDiff + m.MA*m.lastError
	level := m.lastValue

	for i := 0; i < steps; i++ {
		level += diff
		out = append(out, level)
		diff = m.Const + m.AR*diff
	}

	return out
}

// cssObjective is the conditional sum of squared residuals, with an
// infinite penalty outside the stationarity/invertibility region so
// the optimizer stays inside |phi| < 1, |theta| < 1.
func cssObjective(diffs []float64, c, phi, theta float64) float64 {
	if math.Abs(phi) >= 1 || math.Abs(theta) >= 1 {
		return math.Inf(1)
	}

	sse := 0.0
	prevErr := 0.0
	for t := 1; t < len(diffs); t++ {
		e := diffs[t] - c - phi*diffs[t-1] - theta*prevErr
		sse += e * e
		prevErr = e
	}

	if !isFinite(sse) {
		return math.Inf(1)
	}
	return sse
}

// cssResiduals re-runs the recursion of cssObjective and returns the
// residual series (index 0 is the conditioned-on zero).
func cssResiduals(diffs []float64, c, phi, theta float64) []float64 {
	residuals := make([]float64, len(diffs))
	for t := 1; t < len(diffs); t++ {
		residuals[t] = diffs[t] - c - phi*diffs[t-1] - theta*residuals[t-1]
	}
	return residuals
}
