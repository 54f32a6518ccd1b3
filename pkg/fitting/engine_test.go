package fitting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"imfit-model/internal/domain"
)

func testSettings() *domain.Settings {
	return &domain.Settings{
		Workers:   1,
		Trials:    1,
		Jitter:    0.1,
		Method:    "nelder-mead",
		Tolerance: 1e-8,
	}
}

// testModel builds one set at (1, 1) with a Gaussian whose PA is fixed and
// whose I_0 is bounded.
func testModel(t *testing.T) *domain.Model {
	t.Helper()
	m := domain.NewModel()
	s := domain.NewFunctionSet("fs0")
	require.NoError(t, s.X0().SetValue(1, false))
	require.NoError(t, s.Y0().SetValue(1, false))

	f := domain.NewFunction("Gaussian", "disk")
	pa := domain.NewParameter("PA", 30)
	pa.SetFixed(true)
	require.NoError(t, f.AddParameter(pa))
	i0 := domain.NewParameter("I_0", 80)
	require.NoError(t, i0.SetLimits(50, 150))
	require.NoError(t, f.AddParameter(i0))
	require.NoError(t, f.AddParameter(domain.NewParameter("sigma", 1)))
	require.NoError(t, s.AddFunction(f))
	require.NoError(t, m.AddFunctionSet(s))
	return m
}

func TestPrepareReducesFixedParameters(t *testing.T) {
	e := NewEngine(zap.NewNop(), testSettings())
	m := testModel(t)

	cost, initial, err := e.prepare(m, func(x []float64) float64 { return 0 })
	require.NoError(t, err)

	// PA (index 2) is fixed, the other four are free
	require.Equal(t, []int{0, 1, 3, 4}, cost.freeIdx)
	require.Equal(t, []float64{1, 1, 80, 1}, initial)
	require.Equal(t, 50.0, cost.lower[2])
	require.Equal(t, 150.0, cost.upper[2])
	require.True(t, math.IsInf(cost.lower[0], -1))
	require.True(t, math.IsInf(cost.upper[3], 1))

	full := cost.expand([]float64{2, 3, 90, 4})
	require.Equal(t, []float64{2, 3, 30, 90, 4}, full)
}

func TestCostPenalizesBoundViolations(t *testing.T) {
	e := NewEngine(zap.NewNop(), testSettings())
	m := testModel(t)

	cost, initial, err := e.prepare(m, func(x []float64) float64 { return 0 })
	require.NoError(t, err)

	inside := cost.Value(initial)
	require.Zero(t, inside)

	outside := cost.Value([]float64{1, 1, 200, 1})
	require.Greater(t, outside, outOfBoundsPenalty*2400.0)

	require.True(t, math.IsInf(cost.Value([]float64{1, 1}), 1))
}

func TestFitQuadratic(t *testing.T) {
	e := NewEngine(zap.NewNop(), testSettings())
	m := testModel(t)

	// target within bounds; the fixed PA entry keeps its pinned value
	target := []float64{3, -2, 30, 120, 2.5}
	objective := func(x []float64) float64 {
		var sum float64
		for i, v := range x {
			d := v - target[i]
			sum += d * d
		}
		return sum
	}

	result, err := e.Fit(m, objective)
	require.NoError(t, err)
	require.True(t, floats.EqualApprox(target, result.X, 1e-2))
	require.InDelta(t, 0, result.Value, 1e-3)

	// fitted values are written back into the owned entries by position
	require.True(t, floats.EqualApprox(target, m.GetRawParameters(), 1e-2))
	require.Equal(t, 30.0, m.GetRawParameters()[2], "fixed parameter must not move")
}

func TestFitNoFreeParameters(t *testing.T) {
	e := NewEngine(zap.NewNop(), testSettings())

	m := domain.NewModel()
	s := domain.NewFunctionSet("fs0")
	s.X0().SetFixed(true)
	s.Y0().SetFixed(true)
	require.NoError(t, m.AddFunctionSet(s))

	_, err := e.Fit(m, func(x []float64) float64 { return 0 })
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestFitNilArguments(t *testing.T) {
	e := NewEngine(zap.NewNop(), testSettings())
	_, err := e.Fit(nil, func(x []float64) float64 { return 0 })
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = e.Fit(testModel(t), nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
