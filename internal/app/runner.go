package app

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"imfit-model/internal/domain"
	"imfit-model/pkg/fitting"
)

// FitRunner performs multi-start fits: each trial works on a deep clone of
// the model with jittered starting values, and the best trial's vector is
// written back into the caller's model. Clones share no mutable entry with
// the source, so trials can run concurrently.
type FitRunner struct {
	logger   *zap.Logger
	engine   *fitting.Engine
	settings *domain.Settings
}

func NewFitRunner(logger *zap.Logger, settings *domain.Settings) *FitRunner {
	return &FitRunner{
		logger:   logger,
		engine:   fitting.NewEngine(logger, settings),
		settings: settings,
	}
}

// RunReport summarizes a multi-start run.
type RunReport struct {
	Best      fitting.Result
	Trials    int
	Converged int     // trials that produced a finite cost value
	Moved     float64 // distance between the starting and fitted vectors
}

type trialResult struct {
	result *fitting.Result
	err    error
}

// Run performs the configured number of trials and updates model with the
// best vector found.
func (r *FitRunner) Run(model *domain.Model, objective func([]float64) float64) (*RunReport, error) {
	if model == nil || objective == nil {
		return nil, fmt.Errorf("%w: model and objective must not be nil", domain.ErrInvalidArgument)
	}
	start := model.GetRawParameters()

	var wg sync.WaitGroup
	taskChan := make(chan *domain.Model, r.settings.Workers*2)
	resultChan := make(chan trialResult, r.settings.Trials)

	for i := range r.settings.Workers {
		wg.Add(1)
		r.logger.Debug("Starting worker", zap.Int("id", i))
		go r.worker(i, objective, taskChan, resultChan, &wg)
	}

	go func() {
		for t := 0; t < r.settings.Trials; t++ {
			clone := model.Copy()
			if t > 0 {
				// trial 0 starts from the model's own values
				r.jitter(clone)
			}
			taskChan <- clone
		}
		close(taskChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	report := &RunReport{Trials: r.settings.Trials}
	var best *fitting.Result
	var firstErr error
	for trial := range resultChan {
		if trial.err != nil {
			if firstErr == nil {
				firstErr = trial.err
			}
			continue
		}
		if !math.IsInf(trial.result.Value, 0) && !math.IsNaN(trial.result.Value) {
			report.Converged++
		}
		if best == nil || trial.result.Value < best.Value {
			best = trial.result
		}
	}
	if best == nil {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, fmt.Errorf("%w: no trial produced a result", domain.ErrInvalidArgument)
	}

	if err := model.SetRawParameters(best.X); err != nil {
		return nil, err
	}

	report.Best = *best
	report.Moved = floats.Distance(start, best.X, 2)
	r.logger.Info("Multi-start fit finished",
		zap.Int("trials", report.Trials),
		zap.Int("converged", report.Converged),
		zap.Float64("best", report.Best.Value),
		zap.Float64("moved", report.Moved))
	return report, nil
}

func (r *FitRunner) worker(id int, objective func([]float64) float64, tasks <-chan *domain.Model, results chan<- trialResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for clone := range tasks {
		r.logger.Debug("Running trial", zap.Int("worker", id))
		result, err := r.engine.Fit(clone, objective)
		results <- trialResult{result: result, err: err}
	}
}

// jitter perturbs the free parameters of clone: uniform within the limits
// when bounded, relative jitter around the current value otherwise.
func (r *FitRunner) jitter(clone *domain.Model) {
	params := clone.ParameterList()
	values := clone.GetRawParameters()
	limits := clone.GetParameterLimits()

	for i, p := range params {
		if p.Fixed() {
			continue
		}
		if limits[i] != nil {
			values[i] = randomInRange(limits[i].Lower, limits[i].Upper)
		} else {
			span := r.settings.Jitter * math.Max(math.Abs(values[i]), 1.0)
			values[i] += span * (2*rand.Float64() - 1)
		}
	}
	// lengths match by construction
	_ = clone.SetRawParameters(values)
}

func randomInRange(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}
