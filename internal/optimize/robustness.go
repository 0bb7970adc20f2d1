package optimize

import (
	"context"
	"math"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"
)

const (
	volatilitySpikeFactor  = 2.0
	liquidityCrisisFactor  = 10.0
	crisisSlippageFactor   = 5.0
	sensitivityShift       = 0.10
	degradationFloorReturn = 0.01
)

// Robustness applies the stress battery to one strategy: a volatility-spike
// scenario, a liquidity-crisis scenario, an out-of-sample half split and a
// single-parameter sensitivity sweep. Results aggregate into a score in
// [0, 100] where smaller performance degradation under stress means a higher
// score. Individual scenario failures count as full degradation and the
// battery continues.
func (o *Optimizer) Robustness(ctx context.Context, strategy *model.StrategyDefinition, req dto.RobustnessRequest) (*dto.RobustnessResult, error) {
	if err := engine.ValidateStrategy(strategy, req.Parameters); err != nil {
		return nil, err
	}

	baseline, err := o.runner().Run(ctx, strategy, req.BacktestRequest)
	if err != nil {
		return nil, err
	}
	base := baseline.TotalReturn

	result := &dto.RobustnessResult{BaselineReturn: base}

	// Market stress scenarios.
	scenarios := []struct {
		name     string
		provider *stressProvider
		slippage float64
	}{
		{
			name:     "volatility_spike",
			provider: &stressProvider{next: o.provider, transform: volatilitySpike(volatilitySpikeFactor)},
			slippage: o.cfg.BaseSlippage,
		},
		{
			name:     "liquidity_crisis",
			provider: &stressProvider{next: o.provider, transform: liquidityDrain(liquidityCrisisFactor)},
			slippage: o.cfg.BaseSlippage * crisisSlippageFactor,
		},
	}

	for _, sc := range scenarios {
		if !utils.ShouldContinue(ctx, o.log) {
			break
		}
		cfg := o.cfg
		cfg.BaseSlippage = sc.slippage
		runner := engine.NewRunner(sc.provider, cfg, o.log)

		res, err := runner.Run(ctx, strategy, req.BacktestRequest)
		if err != nil {
			result.Scenarios = append(result.Scenarios, dto.StressScenarioResult{
				Scenario: sc.name, Degradation: 1, Failed: true,
			})
			continue
		}
		result.Scenarios = append(result.Scenarios, dto.StressScenarioResult{
			Scenario:    sc.name,
			Return:      res.TotalReturn,
			Degradation: degradation(base, res.TotalReturn),
		})
	}

	// Out-of-sample: search on the first half, test on the second.
	if oos := o.outOfSample(ctx, strategy, req); oos != nil {
		result.OutOfSample = oos
	}

	// Single-parameter sensitivity sweep around the effective binding.
	result.Sensitivity = o.sensitivity(ctx, strategy, req)

	result.Score = robustnessScore(result)

	o.log.InfoContext(ctx, "Robustness testing completed",
		logger.StringField("strategy", strategy.ID),
		logger.Float64Field("score", result.Score),
	)
	return result, nil
}

func (o *Optimizer) outOfSample(ctx context.Context, strategy *model.StrategyDefinition, req dto.RobustnessRequest) *dto.StressScenarioResult {
	mid := req.StartDate.Add(req.EndDate.Sub(req.StartDate) / 2)

	searchReq := dto.ParameterSearchRequest{
		BacktestRequest: req.BacktestRequest,
		Algorithm:       dto.AlgorithmRandom,
		Objective:       dto.ObjectiveTotalReturn,
	}
	searchReq.EndDate = mid

	best, err := o.Search(ctx, strategy, searchReq)
	if err != nil {
		return &dto.StressScenarioResult{Scenario: "out_of_sample", Degradation: 1, Failed: true}
	}

	trainReturn := best.Performance.TotalReturn

	testReq := req.BacktestRequest
	testReq.StartDate = mid
	testReq.Parameters = best.Parameters
	res, err := o.runner().Run(ctx, strategy, testReq)
	if err != nil {
		return &dto.StressScenarioResult{Scenario: "out_of_sample", Degradation: 1, Failed: true}
	}

	return &dto.StressScenarioResult{
		Scenario:    "out_of_sample",
		Return:      res.TotalReturn,
		Degradation: degradation(trainReturn, res.TotalReturn),
	}
}

func (o *Optimizer) sensitivity(ctx context.Context, strategy *model.StrategyDefinition, req dto.RobustnessRequest) []dto.StressScenarioResult {
	binding := effectiveBinding(strategy, req.Parameters)
	base, err := o.runner().Run(ctx, strategy, req.BacktestRequest)
	if err != nil {
		return nil
	}

	var out []dto.StressScenarioResult
	runner := o.runner()
	for _, p := range strategy.Parameters {
		if p.Min == nil || p.Max == nil {
			continue
		}
		if !utils.ShouldContinue(ctx, o.log) {
			break
		}

		for _, direction := range []float64{-1, 1} {
			shifted := cloneBinding(binding)
			shifted[p.Name] = shiftedValue(p, binding[p.Name], direction)

			name := p.Name + "_down"
			if direction > 0 {
				name = p.Name + "_up"
			}

			shiftReq := req.BacktestRequest
			shiftReq.Parameters = shifted
			res, err := runner.Run(ctx, strategy, shiftReq)
			if err != nil {
				out = append(out, dto.StressScenarioResult{Scenario: name, Degradation: 1, Failed: true})
				continue
			}
			out = append(out, dto.StressScenarioResult{
				Scenario:    name,
				Return:      res.TotalReturn,
				Degradation: degradation(base.TotalReturn, res.TotalReturn),
			})
		}
	}
	return out
}

// effectiveBinding merges a request binding over the strategy defaults, so a
// partial binding still sweeps around the values the run actually used.
func effectiveBinding(strategy *model.StrategyDefinition, binding model.ParameterBinding) model.ParameterBinding {
	out := strategy.DefaultBinding()
	for name, value := range binding {
		out[name] = value
	}
	return out
}

// shiftedValue nudges one parameter by the sensitivity fraction, clamped to
// its declared bounds and rounded for integer parameters.
func shiftedValue(p model.ParameterDefinition, value, direction float64) float64 {
	v := value * (1 + direction*sensitivityShift)
	v = math.Max(*p.Min, math.Min(*p.Max, v))
	if p.Type == model.ParameterTypeInt {
		v = float64(int(v + 0.5))
	}
	return v
}

// degradation maps a baseline/stressed return pair to [0, 1]: 0 when the
// stressed run held up, 1 when the whole baseline edge was lost or worse.
func degradation(base, stressed float64) float64 {
	drop := base - stressed
	if drop <= 0 {
		return 0
	}
	scale := math.Max(math.Abs(base), degradationFloorReturn)
	return math.Min(drop/scale, 1)
}

// robustnessScore is 100 minus the mean degradation across the battery,
// scaled to [0, 100]. Monotonic: smaller degradation, higher score.
func robustnessScore(r *dto.RobustnessResult) float64 {
	var sum float64
	var n int
	for _, s := range r.Scenarios {
		sum += s.Degradation
		n++
	}
	if r.OutOfSample != nil {
		sum += r.OutOfSample.Degradation
		n++
	}
	for _, s := range r.Sensitivity {
		sum += s.Degradation
		n++
	}
	if n == 0 {
		return 0
	}
	return 100 * (1 - sum/float64(n))
}
