package forecast

import (
	"context"
	"math"
	"sort"

	"runway/pkg/errors"
)

// nelderMead minimizes fn over len(start) parameters using the
// standard reflect/expand/contract/shrink simplex moves. It is small
// and dependency-free, which is all the three-parameter CSS objective
// needs. The context is checked every iteration so a fit timeout
// cancels promptly.
func nelderMead(ctx context.Context, fn func([]float64) float64, start []float64, tol float64, maxIter int) ([]float64, error) {
	const (
		alpha = 1.0 // reflection
		gamma = 2.0 // expansion
		rho   = 0.5 // contraction
		sigma = 0.5 // shrink
	)

	dim := len(start)

	// Initial simplex: the start point plus one perturbed vertex per
	// dimension
	simplex := make([][]float64, dim+1)
	values := make([]float64, dim+1)
	for i := range simplex {
		v := make([]float64, dim)
		copy(v, start)
		if i > 0 {
			step := 0.1
			if v[i-1] != 0 {
				step = 0.1 * math.Abs(v[i-1])
			}
			v[i-1] += step
		}
		simplex[i] = v
		values[i] = fn(v)
	}

	order := make([]int, dim+1)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrTimeout, err.Error())
		}

		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

		best, worst := order[0], order[dim]

		if math.Abs(values[worst]-values[best]) < tol {
			if !isFinite(values[best]) {
				return nil, errors.Wrap(errors.ErrForecastFit, "objective did not reach a finite minimum")
			}
			return simplex[best], nil
		}

		// Centroid of all but the worst vertex
		centroid := make([]float64, dim)
		for _, idx := range order[:dim] {
			for j, x := range simplex[idx] {
				centroid[j] += x
			}
		}
		for j := range centroid {
			centroid[j] /= float64(dim)
		}

		reflected := combine(centroid, simplex[worst], 1+alpha, -alpha)
		fr := fn(reflected)

		switch {
		case fr < values[best]:
			expanded := combine(centroid, simplex[worst], 1+gamma, -gamma)
			if fe := fn(expanded); fe < fr {
				simplex[worst], values[worst] = expanded, fe
			} else {
				simplex[worst], values[worst] = reflected, fr
			}

		case fr < values[order[dim-1]]:
			simplex[worst], values[worst] = reflected, fr

		default:
			contracted := combine(centroid, simplex[worst], 1-rho, rho)
			if fc := fn(contracted); fc < values[worst] {
				simplex[worst], values[worst] = contracted, fc
			} else {
				// Shrink toward the best vertex
				for _, idx := range order[1:] {
					simplex[idx] = combine(simplex[best], simplex[idx], 1-sigma, sigma)
					values[idx] = fn(simplex[idx])
				}
			}
		}
	}

	return nil, errors.Wrap(errors.ErrForecastFit, "optimizer failed to converge")
}

func combine(a, b []float64, wa, wb float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = wa*a[i] + wb*b[i]
	}
	return out
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
