package fitting

import (
	"math"

	"go.uber.org/zap"
)

const outOfBoundsPenalty = 1e4

// costFunction adapts a user objective over the full parameter vector to the
// reduced free-parameter vector the optimizer works in. Fixed parameters are
// pinned at their current values and re-inserted before each evaluation;
// limit violations are punished with soft quadratic penalties since the
// optimizer itself is unconstrained.
type costFunction struct {
	logger    *zap.Logger
	objective func([]float64) float64
	full      []float64 // full parameter vector, fixed entries already set
	freeIdx   []int     // positions of free parameters within full
	lower     []float64 // per free parameter; -Inf when unbounded
	upper     []float64 // per free parameter; +Inf when unbounded
}

// expand writes the reduced vector into the full parameter vector and
// returns it. The returned slice is reused between calls.
func (c *costFunction) expand(x []float64) []float64 {
	for i, idx := range c.freeIdx {
		c.full[idx] = x[i]
	}
	return c.full
}

func (c *costFunction) boundsPenalty(x []float64) float64 {
	var penalty float64
	for i, v := range x {
		if v < c.lower[i] {
			d := c.lower[i] - v
			penalty += outOfBoundsPenalty * d * d
		} else if v > c.upper[i] {
			d := v - c.upper[i]
			penalty += outOfBoundsPenalty * d * d
		}
	}
	return penalty
}

func (c *costFunction) Value(x []float64) float64 {
	if len(x) != len(c.freeIdx) {
		return math.Inf(1)
	}

	residual := c.objective(c.expand(x))
	penalty := c.boundsPenalty(x)
	total := residual + penalty

	c.logger.Debug("Cost evaluated",
		zap.Float64("residual", residual),
		zap.Float64("penalty", penalty),
		zap.Float64("total", total))

	return total
}

// Gradient computes a forward-difference gradient of the cost at x.
func (c *costFunction) Gradient(x []float64) []float64 {
	n := len(x)
	gradient := make([]float64, n)
	h := 1e-3

	fx := c.Value(x)

	xMod := make([]float64, n)
	copy(xMod, x)

	for i := 0; i < n; i++ {
		xMod[i] += h
		fxh := c.Value(xMod)

		if math.IsInf(fx, 0) || math.IsInf(fxh, 0) || math.IsNaN(fxh-fx) {
			gradient[i] = 0
		} else {
			gradient[i] = (fxh - fx) / h
		}

		xMod[i] = x[i]
	}

	return gradient
}
