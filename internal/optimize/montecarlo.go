package optimize

import (
	"context"
	"math/rand"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
)

// MonteCarlo draws N independent parameter bindings uniformly within each
// parameter's declared bounds, runs one backtest per binding on the worker
// pool and returns every result sorted by the objective descending. Each
// record's Probability is its empirical CDF rank: the fraction of simulations
// it performed at least as well as.
func (o *Optimizer) MonteCarlo(ctx context.Context, strategy *model.StrategyDefinition, req dto.MonteCarloRequest) ([]dto.OptimizationResult, error) {
	if err := engine.ValidateStrategy(strategy, req.Parameters); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(o.baseSeed))
	bindings := make([]model.ParameterBinding, req.Simulations)
	for i := range bindings {
		bindings[i] = sampleBinding(strategy, rng)
	}

	results := o.evaluateBindings(ctx, strategy, req.BacktestRequest, bindings)
	sortByObjective(results, req.Objective)

	succeeded := 0
	for i := range results {
		if results[i].Error == "" {
			succeeded++
		}
	}
	for i := range results {
		if results[i].Error == "" {
			// Sorted descending, so index 0 beats everyone.
			results[i].Probability = float64(succeeded-i) / float64(len(results))
		}
	}

	o.log.InfoContext(ctx, "Monte Carlo sampling completed",
		logger.StringField("strategy", strategy.ID),
		logger.IntField("simulations", req.Simulations),
		logger.IntField("succeeded", succeeded),
	)
	return results, nil
}
