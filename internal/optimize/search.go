package optimize

import (
	"context"
	"math/rand"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
)

// Search finds the best-performing parameter binding by the requested
// objective. Grid search enumerates up to MaxSamples points of a uniform
// grid over the bounded parameters; random search samples uniformly. The
// genetic algorithm is currently an alias of random search.
func (o *Optimizer) Search(ctx context.Context, strategy *model.StrategyDefinition, req dto.ParameterSearchRequest) (*dto.OptimizationResult, error) {
	if err := engine.ValidateStrategy(strategy, nil); err != nil {
		return nil, err
	}

	maxSamples := req.MaxSamples
	if maxSamples <= 0 {
		maxSamples = defaultSearchSamples
	}

	var bindings []model.ParameterBinding
	switch req.Algorithm {
	case dto.AlgorithmGrid:
		bindings = gridBindings(strategy, maxSamples)
	default: // random, genetic
		rng := rand.New(rand.NewSource(o.baseSeed))
		bindings = make([]model.ParameterBinding, maxSamples)
		for i := range bindings {
			bindings[i] = sampleBinding(strategy, rng)
		}
	}

	results := o.evaluateBindings(ctx, strategy, req.BacktestRequest, bindings)
	sortByObjective(results, req.Objective)
	if len(results) == 0 || results[0].Error != "" {
		o.log.WarnContext(ctx, "Parameter search produced no successful run",
			logger.StringField("strategy", strategy.ID))
	}
	if len(results) == 0 {
		return &dto.OptimizationResult{Parameters: strategy.DefaultBinding()}, nil
	}
	best := results[0]
	return &best, nil
}

// evaluateBindings runs one backtest per binding on the worker pool and
// returns one result per binding, failures included.
func (o *Optimizer) evaluateBindings(ctx context.Context, strategy *model.StrategyDefinition, base dto.BacktestRequest, bindings []model.ParameterBinding) []dto.OptimizationResult {
	results := make([]dto.OptimizationResult, len(bindings))
	runner := o.runner()

	runParallel(ctx, len(bindings), o.maxWorkers, func(i int) {
		req := base
		req.Parameters = bindings[i]
		seed := o.baseSeed + int64(i)
		req.Seed = &seed

		results[i] = dto.OptimizationResult{Parameters: bindings[i]}
		res, err := runner.Run(ctx, strategy, req)
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		results[i].Performance = res.Metrics
	})
	return results
}

// gridBindings enumerates a uniform grid over the bounded parameters, capped
// at maxSamples points. Unbounded parameters stay at their default.
func gridBindings(strategy *model.StrategyDefinition, maxSamples int) []model.ParameterBinding {
	type axis struct {
		name   string
		values []float64
	}

	var axes []axis
	base := strategy.DefaultBinding()
	for _, p := range strategy.Parameters {
		if p.Min == nil || p.Max == nil {
			continue
		}
		var values []float64
		step := (*p.Max - *p.Min) / float64(gridLevels-1)
		for level := 0; level < gridLevels; level++ {
			v := *p.Min + step*float64(level)
			if p.Type == model.ParameterTypeInt {
				v = float64(int(v + 0.5))
			}
			if len(values) == 0 || values[len(values)-1] != v {
				values = append(values, v)
			}
		}
		axes = append(axes, axis{name: p.Name, values: values})
	}

	if len(axes) == 0 {
		return []model.ParameterBinding{base}
	}

	bindings := []model.ParameterBinding{cloneBinding(base)}
	for _, ax := range axes {
		var expanded []model.ParameterBinding
		for _, b := range bindings {
			for _, v := range ax.values {
				nb := cloneBinding(b)
				nb[ax.name] = v
				expanded = append(expanded, nb)
			}
		}
		bindings = expanded
		if len(bindings) > maxSamples {
			bindings = bindings[:maxSamples]
		}
	}
	return bindings
}
