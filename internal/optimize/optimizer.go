// Package optimize drives repeated backtest runs over varying parameters and
// time windows: walk-forward analysis, Monte Carlo sampling, grid/random
// parameter search and the robustness stress battery. A failed unit of work
// is recorded against its binding or window and the sweep continues; only a
// strategy that fails validation before any run aborts the whole call.
package optimize

import (
	"math/rand"
	"runtime"
	"sort"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/internal/provider"
	"golang-backtest/pkg/logger"
)

const (
	defaultSearchSamples = 50
	gridLevels           = 5
)

// Optimizer fans independent backtests out over a bounded worker pool. It
// builds a private runner per scenario so stress conditions can vary the cost
// model without touching the baseline configuration.
type Optimizer struct {
	provider   provider.BarProvider
	cfg        config.Engine
	log        *logger.Logger
	maxWorkers int
	baseSeed   int64
}

func NewOptimizer(p provider.BarProvider, cfg config.Engine, log *logger.Logger, maxWorkers int, baseSeed int64) *Optimizer {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &Optimizer{
		provider:   p,
		cfg:        cfg,
		log:        log,
		maxWorkers: maxWorkers,
		baseSeed:   baseSeed,
	}
}

func (o *Optimizer) runner() *engine.Runner {
	return engine.NewRunner(o.provider, o.cfg, o.log)
}

// objectiveValue extracts the ranking metric from a metrics record.
func objectiveValue(m model.PerformanceMetrics, objective string) float64 {
	switch objective {
	case dto.ObjectiveSharpeRatio:
		return m.SharpeRatio
	case dto.ObjectiveProfitFactor:
		return m.ProfitFactor
	case dto.ObjectiveWinRate:
		return m.WinRate
	default:
		return m.TotalReturn
	}
}

// sortByObjective orders results by the objective descending; failed units
// sink to the end.
func sortByObjective(results []dto.OptimizationResult, objective string) {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Error == "") != (results[j].Error == "") {
			return results[i].Error == ""
		}
		return objectiveValue(results[i].Performance, objective) > objectiveValue(results[j].Performance, objective)
	})
}

// sampleBinding draws one parameter binding uniformly within each declared
// [min, max]; unbounded parameters keep their default. Integer parameters are
// rounded to whole values.
func sampleBinding(strategy *model.StrategyDefinition, rng *rand.Rand) model.ParameterBinding {
	binding := make(model.ParameterBinding, len(strategy.Parameters))
	for _, p := range strategy.Parameters {
		if p.Min == nil || p.Max == nil {
			binding[p.Name] = p.Default
			continue
		}
		v := *p.Min + rng.Float64()*(*p.Max-*p.Min)
		if p.Type == model.ParameterTypeInt {
			v = float64(int(v + 0.5))
		}
		binding[p.Name] = v
	}
	return binding
}

func cloneBinding(binding model.ParameterBinding) model.ParameterBinding {
	out := make(model.ParameterBinding, len(binding))
	for k, v := range binding {
		out[k] = v
	}
	return out
}
