package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"imfit-model/internal/domain"
)

func testSettings() *domain.Settings {
	return &domain.Settings{
		Workers:   2,
		Trials:    4,
		Jitter:    0.2,
		Method:    "nelder-mead",
		Tolerance: 1e-8,
	}
}

func buildModel(t *testing.T) *domain.Model {
	t.Helper()
	m := domain.NewModel()
	s := domain.NewFunctionSet("fs0")
	require.NoError(t, s.X0().SetValue(1, false))
	require.NoError(t, s.Y0().SetValue(1, false))

	f := domain.NewFunction("Gaussian", "disk")
	i0 := domain.NewParameter("I_0", 80)
	require.NoError(t, i0.SetLimits(50, 150))
	require.NoError(t, f.AddParameter(i0))
	require.NoError(t, f.AddParameter(domain.NewParameter("sigma", 1)))
	require.NoError(t, s.AddFunction(f))
	require.NoError(t, m.AddFunctionSet(s))
	return m
}

func TestRunUpdatesModelWithBestTrial(t *testing.T) {
	runner := NewFitRunner(zap.NewNop(), testSettings())
	model := buildModel(t)

	target := []float64{2, 3, 100, 1.5}
	objective := func(x []float64) float64 {
		var sum float64
		for i, v := range x {
			d := v - target[i]
			sum += d * d
		}
		return sum
	}

	report, err := runner.Run(model, objective)
	require.NoError(t, err)
	require.Equal(t, 4, report.Trials)
	require.Greater(t, report.Converged, 0)
	require.InDelta(t, 0, report.Best.Value, 1e-3)

	require.True(t, floats.EqualApprox(target, model.GetRawParameters(), 1e-2))

	// trials ran on clones: the structure of the model is untouched
	fs, ok := model.FunctionSet("fs0")
	require.True(t, ok)
	require.Equal(t, []string{"Gaussian"}, fs.FunctionTypes())
}

func TestRunNilArguments(t *testing.T) {
	runner := NewFitRunner(zap.NewNop(), testSettings())

	_, err := runner.Run(nil, func(x []float64) float64 { return 0 })
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = runner.Run(buildModel(t), nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRunReportsTrialError(t *testing.T) {
	runner := NewFitRunner(zap.NewNop(), testSettings())

	// no free parameters: every trial fails, the error surfaces
	m := domain.NewModel()
	s := domain.NewFunctionSet("fs0")
	s.X0().SetFixed(true)
	s.Y0().SetFixed(true)
	require.NoError(t, m.AddFunctionSet(s))

	_, err := runner.Run(m, func(x []float64) float64 { return 0 })
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
