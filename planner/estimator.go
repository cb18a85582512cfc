package planner

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ridgeAlpha is the regularization strength of the degree-1 ridge fit. It
// also keeps the fit well posed when all observations share a duration.
const ridgeAlpha = 1.0

// snapshotValue is the empirical mean of the returns sampled for a chance
// node during the current planning call. The node must have been visited.
func snapshotValue(c *chance) float64 {
	if len(c.returns) == 0 {
		panic("snapshot value of an unvisited chance node")
	}
	sum := 0.0
	for _, r := range c.returns {
		sum += r
	}
	return sum / float64(len(c.returns))
}

// inferredValue corrects the snapshot value for environment drift: it
// regresses the node's historical observations against elapsed simulated
// duration and extrapolates back to duration zero. No inference happens for
// depth-0 nodes, nodes without history, or histories with at most one point.
func inferredValue(c *chance) float64 {
	if c.depth == 0 || c.history == nil || len(c.history.observations) <= 1 {
		return snapshotValue(c)
	}
	v := ridgePredictAtZero(c.history.observations)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return snapshotValue(c)
	}
	return v
}

// ridgePredictAtZero fits value on duration with an L2-penalized slope and
// an unpenalized intercept, then predicts at duration zero. This is the
// closed form of a degree-1 ridge regression with centered features.
func ridgePredictAtZero(obs []observation) float64 {
	n := len(obs)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, o := range obs {
		xs[i] = o.duration
		ys[i] = o.value
	}

	xbar := stat.Mean(xs, nil)
	ybar := stat.Mean(ys, nil)
	sxx := stat.Variance(xs, nil) * float64(n-1)
	sxy := stat.Covariance(xs, ys, nil) * float64(n-1)

	slope := sxy / (sxx + ridgeAlpha)
	return ybar - slope*xbar
}
