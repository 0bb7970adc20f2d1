package service

import (
	"fmt"
	"sync"

	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/utils"
)

// StrategyRegistry holds the named strategy definitions available to the
// engine. It replaces process-wide singletons with an explicit object so
// tests and parallel sweeps can each carry their own.
type StrategyRegistry struct {
	mu         sync.RWMutex
	strategies map[string]*model.StrategyDefinition
}

func NewStrategyRegistry() *StrategyRegistry {
	r := &StrategyRegistry{
		strategies: make(map[string]*model.StrategyDefinition),
	}
	for _, s := range builtinStrategies() {
		r.strategies[s.ID] = s
	}
	return r
}

// Register validates and stores a strategy definition.
func (r *StrategyRegistry) Register(strategy *model.StrategyDefinition) error {
	if err := engine.ValidateStrategy(strategy, nil); err != nil {
		return err
	}
	if strategy.ID == "" {
		return fmt.Errorf("%w: missing id", engine.ErrInvalidStrategy)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[strategy.ID] = strategy
	return nil
}

// Get returns the strategy with the given id.
func (r *StrategyRegistry) Get(id string) (*model.StrategyDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy %q", engine.ErrInvalidStrategy, id)
	}
	return s, nil
}

// List returns all registered strategies.
func (r *StrategyRegistry) List() []*model.StrategyDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.StrategyDefinition, 0, len(r.strategies))
	for _, s := range r.strategies {
		out = append(out, s)
	}
	return out
}

// builtinStrategies are the reference implementations of the two canonical
// families plus the EMA trend follower.
func builtinStrategies() []*model.StrategyDefinition {
	return []*model.StrategyDefinition{
		{
			ID:       "momentum-cross",
			Name:     "SMA Momentum Crossover",
			Category: model.CategoryMomentum,
			Parameters: []model.ParameterDefinition{
				{Name: engine.ParamFastPeriod, Type: model.ParameterTypeInt, Default: 9, Min: utils.ToPointer(3.0), Max: utils.ToPointer(20.0)},
				{Name: engine.ParamSlowPeriod, Type: model.ParameterTypeInt, Default: 21, Min: utils.ToPointer(21.0), Max: utils.ToPointer(100.0)},
			},
			Indicators: []model.IndicatorDefinition{
				{Name: "fast_sma", Kind: "sma"},
				{Name: "slow_sma", Kind: "sma"},
			},
			RiskRules: []model.RiskRule{
				{Kind: model.RiskRuleStopLoss, Value: 0.05, Action: "close"},
				{Kind: model.RiskRuleTakeProfit, Value: 0.10, Action: "close"},
			},
		},
		{
			ID:       "rsi-reversion",
			Name:     "RSI Mean Reversion",
			Category: model.CategoryMeanReversion,
			Parameters: []model.ParameterDefinition{
				{Name: engine.ParamRSIPeriod, Type: model.ParameterTypeInt, Default: 14, Min: utils.ToPointer(5.0), Max: utils.ToPointer(30.0)},
				{Name: engine.ParamOversold, Type: model.ParameterTypeFloat, Default: 30, Min: utils.ToPointer(10.0), Max: utils.ToPointer(40.0)},
				{Name: engine.ParamOverbought, Type: model.ParameterTypeFloat, Default: 70, Min: utils.ToPointer(60.0), Max: utils.ToPointer(90.0)},
			},
			Indicators: []model.IndicatorDefinition{
				{Name: "rsi", Kind: "rsi"},
			},
			RiskRules: []model.RiskRule{
				{Kind: model.RiskRuleStopLoss, Value: 0.04, Action: "close"},
			},
		},
		{
			ID:       "ema-trend",
			Name:     "EMA Trend Following",
			Category: model.CategoryTrendFollowing,
			Parameters: []model.ParameterDefinition{
				{Name: engine.ParamFastPeriod, Type: model.ParameterTypeInt, Default: 12, Min: utils.ToPointer(5.0), Max: utils.ToPointer(20.0)},
				{Name: engine.ParamSlowPeriod, Type: model.ParameterTypeInt, Default: 26, Min: utils.ToPointer(21.0), Max: utils.ToPointer(60.0)},
				{Name: engine.ParamATRPeriod, Type: model.ParameterTypeInt, Default: 14},
			},
			Indicators: []model.IndicatorDefinition{
				{Name: "fast_ema", Kind: "ema"},
				{Name: "slow_ema", Kind: "ema"},
				{Name: "atr", Kind: "atr"},
			},
			RiskRules: []model.RiskRule{
				{Kind: model.RiskRuleStopLoss, Value: 0.06, Action: "close"},
			},
		},
	}
}
