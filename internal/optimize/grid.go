// Package optimize implements the per-window grid search over the two
// smoothing-parameter axes.
package optimize

import (
	"math"

	"github.com/quantfold/quantfold/internal/core"
)

// Grid describes the bounded parameter search space: a fixed-step lattice
// over lambda and theta.
type Grid struct {
	LambdaMin  float64 `json:"lambda_min"`
	LambdaMax  float64 `json:"lambda_max"`
	LambdaStep float64 `json:"lambda_step"`
	ThetaMin   float64 `json:"theta_min"`
	ThetaMax   float64 `json:"theta_max"`
	ThetaStep  float64 `json:"theta_step"`
}

// DefaultGrid returns the 10x10 lattice over [0.90, 0.99] on both axes.
func DefaultGrid() Grid {
	return Grid{
		LambdaMin: 0.90, LambdaMax: 0.99, LambdaStep: 0.01,
		ThetaMin: 0.90, ThetaMax: 0.99, ThetaStep: 0.01,
	}
}

// axisValues expands one axis by step count rather than accumulation, so
// float drift cannot change the lattice size.
func axisValues(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	n := int(math.Floor((max-min)/step+0.5)) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = min + float64(i)*step
	}
	return out
}

// Pairs enumerates every combination in the documented deterministic order:
// lambda-outer, theta-inner. Grid-search ties are broken by this order, so
// it must never change.
func (g Grid) Pairs() []core.ParameterPair {
	lambdas := axisValues(g.LambdaMin, g.LambdaMax, g.LambdaStep)
	thetas := axisValues(g.ThetaMin, g.ThetaMax, g.ThetaStep)

	pairs := make([]core.ParameterPair, 0, len(lambdas)*len(thetas))
	for _, l := range lambdas {
		for _, th := range thetas {
			pairs = append(pairs, core.ParameterPair{Lambda: l, Theta: th})
		}
	}
	return pairs
}
