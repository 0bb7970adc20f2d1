package service

import (
	"context"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/provider"
	"golang-backtest/pkg/logger"
)

// BacktestService defines the interface of the backtesting entry point.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
}

type backtestService struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *StrategyRegistry
	runner   *engine.Runner
}

// NewBacktestService creates a new backtest service over the given provider
// and registry.
func NewBacktestService(cfg *config.Config, log *logger.Logger, registry *StrategyRegistry, barProvider provider.BarProvider) BacktestService {
	return &backtestService{
		cfg:      cfg,
		log:      log,
		registry: registry,
		runner:   engine.NewRunner(barProvider, cfg.Engine, log),
	}
}

// RunBacktest resolves the strategy, applies the capital default and runs the
// full pipeline once.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	strategy, err := s.registry.Get(req.StrategyID)
	if err != nil {
		return nil, err
	}

	if req.InitialCapital <= 0 {
		req.InitialCapital = s.cfg.Engine.InitialCapital
	}

	result, err := s.runner.Run(ctx, strategy, req)
	if err != nil {
		s.log.ErrorContext(ctx, "Backtest run failed",
			logger.StringField("strategy_id", req.StrategyID),
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "Backtest completed",
		logger.StringField("strategy_id", req.StrategyID),
		logger.StringField("symbol", req.Symbol),
		logger.IntField("total_trades", result.TotalTrades),
		logger.Float64Field("total_return", result.TotalReturn),
	)
	return result, nil
}
