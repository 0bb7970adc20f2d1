package dto

import "golang-backtest/internal/model"

// Objective metrics an optimization can rank results by.
const (
	ObjectiveTotalReturn  = "total_return"
	ObjectiveSharpeRatio  = "sharpe_ratio"
	ObjectiveProfitFactor = "profit_factor"
	ObjectiveWinRate      = "win_rate"
)

// Search algorithms.
const (
	AlgorithmGrid    = "grid"
	AlgorithmRandom  = "random"
	AlgorithmGenetic = "genetic"
)

// WalkForwardRequest drives a rolling train-then-test evaluation.
// Window sizes are in calendar days.
type WalkForwardRequest struct {
	BacktestRequest
	TrainingWindow int `json:"training_window" validate:"required,gt=0"`
	TestingWindow  int `json:"testing_window" validate:"required,gt=0"`
	StepSize       int `json:"step_size" validate:"required,gt=0"`
}

// MonteCarloRequest draws N independent parameter bindings.
type MonteCarloRequest struct {
	BacktestRequest
	Simulations int    `json:"simulations" validate:"omitempty,gt=0"`
	Objective   string `json:"objective,omitempty"`
}

// ParameterSearchRequest enumerates or samples the parameter space.
type ParameterSearchRequest struct {
	BacktestRequest
	Algorithm  string `json:"algorithm" validate:"omitempty,oneof=grid random genetic"`
	MaxSamples int    `json:"max_samples,omitempty"`
	Objective  string `json:"objective,omitempty"`
}

// OptimizationResult records one evaluated parameter binding or window.
// Probability is set by Monte Carlo sampling, Period by walk-forward.
type OptimizationResult struct {
	Parameters  model.ParameterBinding   `json:"parameters"`
	Performance model.PerformanceMetrics `json:"performance"`
	Period      *Period                  `json:"period,omitempty"`
	Probability float64                  `json:"probability,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

// RobustnessRequest runs the stress-test battery for one strategy.
type RobustnessRequest struct {
	BacktestRequest
}

// StressScenarioResult is the outcome of one stress condition.
type StressScenarioResult struct {
	Scenario    string  `json:"scenario"`
	Return      float64 `json:"return"`
	Degradation float64 `json:"degradation"`
	Failed      bool    `json:"failed"`
}

// RobustnessResult aggregates the stress battery into a single score in
// [0, 100]; smaller degradation under stress yields a higher score.
type RobustnessResult struct {
	Score          float64                `json:"score"`
	BaselineReturn float64                `json:"baseline_return"`
	Scenarios      []StressScenarioResult `json:"scenarios"`
	OutOfSample    *StressScenarioResult  `json:"out_of_sample,omitempty"`
	Sensitivity    []StressScenarioResult `json:"sensitivity"`
}
