// Package fitting drives the external optimization engine through the flat
// vector contract of a model description: values and limits out, fitted
// values back in by position.
package fitting

import (
	"fmt"
	"math"

	"github.com/physicist2018/optimization-go/optimization"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"imfit-model/internal/domain"
)

// Result reports a finished fit: the full parameter vector in ParameterList
// order (fixed entries included) and the cost value at the optimum.
type Result struct {
	X     []float64
	Value float64
}

type Engine struct {
	logger   *zap.Logger
	settings *domain.Settings
}

func NewEngine(logger *zap.Logger, settings *domain.Settings) *Engine {
	return &Engine{logger: logger, settings: settings}
}

// Fit optimizes the free parameters of model against objective and writes
// the fitted values back into the model by position. The objective receives
// the full parameter vector in ParameterList order.
func (e *Engine) Fit(model *domain.Model, objective func([]float64) float64) (*Result, error) {
	cost, initial, err := e.prepare(model, objective)
	if err != nil {
		return nil, err
	}

	opt := e.newOptimizer()
	result := opt.Optimize(cost, initial)

	// Penalties are soft, so the optimum may sit slightly outside the
	// limits; snap it back before the write-back.
	x := clampToBounds(result.X, cost.lower, cost.upper)
	full := cost.expand(x)
	fitted := make([]float64, len(full))
	copy(fitted, full)

	if err := model.SetRawParameters(fitted); err != nil {
		return nil, err
	}

	e.logger.Debug("Fit finished",
		zap.Float64("value", result.Value),
		zap.Float64("moved", floats.Distance(initial, x, 2)))

	return &Result{X: fitted, Value: result.Value}, nil
}

// prepare builds the cost adapter and the reduced starting vector from the
// model's current values, limits and fixed flags.
func (e *Engine) prepare(model *domain.Model, objective func([]float64) float64) (*costFunction, []float64, error) {
	if model == nil || objective == nil {
		return nil, nil, fmt.Errorf("%w: model and objective must not be nil", domain.ErrInvalidArgument)
	}

	params := model.ParameterList()
	limits := model.GetParameterLimits()

	cost := &costFunction{
		logger:    e.logger,
		objective: objective,
		full:      model.GetRawParameters(),
	}

	var initial []float64
	for i, p := range params {
		if p.Fixed() {
			continue
		}
		cost.freeIdx = append(cost.freeIdx, i)
		initial = append(initial, cost.full[i])

		lower, upper := math.Inf(-1), math.Inf(1)
		if limits[i] != nil {
			lower, upper = limits[i].Lower, limits[i].Upper
		}
		cost.lower = append(cost.lower, lower)
		cost.upper = append(cost.upper, upper)
	}
	if len(initial) == 0 {
		return nil, nil, fmt.Errorf("%w: model has no free parameters", domain.ErrInvalidArgument)
	}
	return cost, initial, nil
}

func (e *Engine) newOptimizer() optimization.Optimizer {
	switch e.settings.GetOptMethod() {
	case domain.MethodGradientDescent:
		gdConf := optimization.DefaultGradientDescentConfig()
		gdConf.Tolerance = e.settings.Tolerance
		gdConf.UseRMSprop = true
		return optimization.NewAdaptiveGradientDescent(gdConf)
	case domain.MethodSimulatedAnnealing:
		saConf := optimization.DefaultSimulatedAnnealingConfig()
		return optimization.NewSimulatedAnnealing(saConf)
	default:
		nmConf := optimization.DefaultNelderMeadConfig()
		nmConf.Tolerance = e.settings.Tolerance
		return optimization.NewOptimizedNelderMead(nmConf)
	}
}

func clampToBounds(x, lower, upper []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Min(math.Max(v, lower[i]), upper[i])
	}
	return out
}
