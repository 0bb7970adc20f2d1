package optimize

import (
	"context"
	"fmt"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/internal/provider"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"
)

// WalkForward partitions the request range into consecutive
// (training, testing) window pairs advanced by the step size. Each pair runs
// a parameter search on the training window and a single backtest on the
// testing window with the winning binding. The sweep stops once the next
// testing window would pass the end date; per-window failures are recorded
// and the remaining windows still run.
func (o *Optimizer) WalkForward(ctx context.Context, strategy *model.StrategyDefinition, req dto.WalkForwardRequest) ([]dto.OptimizationResult, error) {
	if err := engine.ValidateStrategy(strategy, req.Parameters); err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, provider.ErrInvalidRange
	}

	start := utils.TruncateToDay(req.StartDate)
	end := utils.TruncateToDay(req.EndDate)
	runner := o.runner()

	var results []dto.OptimizationResult
	for trainStart := start; ; trainStart = trainStart.AddDate(0, 0, req.StepSize) {
		trainEnd := trainStart.AddDate(0, 0, req.TrainingWindow)
		testEnd := trainEnd.AddDate(0, 0, req.TestingWindow)
		if testEnd.After(end) {
			break
		}
		if !utils.ShouldContinue(ctx, o.log) {
			break
		}

		period := dto.Period{StartDate: trainEnd, EndDate: testEnd}

		searchReq := dto.ParameterSearchRequest{
			BacktestRequest: req.BacktestRequest,
			Algorithm:       dto.AlgorithmRandom,
			Objective:       dto.ObjectiveTotalReturn,
		}
		searchReq.StartDate = trainStart
		searchReq.EndDate = trainEnd

		best, err := o.Search(ctx, strategy, searchReq)
		if err != nil {
			results = append(results, dto.OptimizationResult{
				Period: &period,
				Error:  fmt.Sprintf("training search failed: %v", err),
			})
			continue
		}

		testReq := req.BacktestRequest
		testReq.StartDate = trainEnd
		testReq.EndDate = testEnd
		testReq.Parameters = best.Parameters

		res, err := runner.Run(ctx, strategy, testReq)
		if err != nil {
			o.log.WarnContext(ctx, "Walk-forward testing window failed",
				logger.StringField("strategy", strategy.ID),
				logger.ErrorField(err),
			)
			results = append(results, dto.OptimizationResult{
				Parameters: best.Parameters,
				Period:     &period,
				Error:      err.Error(),
			})
			continue
		}

		results = append(results, dto.OptimizationResult{
			Parameters:  best.Parameters,
			Performance: res.Metrics,
			Period:      &period,
		})
	}

	o.log.InfoContext(ctx, "Walk-forward analysis completed",
		logger.StringField("strategy", strategy.ID),
		logger.IntField("windows", len(results)),
	)
	return results, nil
}
