package service

import (
	"context"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/optimize"
	"golang-backtest/internal/provider"
	"golang-backtest/pkg/logger"
)

// OptimizationService exposes the optimization layer: every entry point takes
// the backtest tuple plus algorithm-specific parameters and fans work out
// over the bounded pool.
type OptimizationService interface {
	WalkForward(ctx context.Context, req dto.WalkForwardRequest) ([]dto.OptimizationResult, error)
	MonteCarlo(ctx context.Context, req dto.MonteCarloRequest) ([]dto.OptimizationResult, error)
	ParameterSearch(ctx context.Context, req dto.ParameterSearchRequest) (*dto.OptimizationResult, error)
	Robustness(ctx context.Context, req dto.RobustnessRequest) (*dto.RobustnessResult, error)
}

type optimizationService struct {
	cfg       *config.Config
	log       *logger.Logger
	registry  *StrategyRegistry
	optimizer *optimize.Optimizer
}

func NewOptimizationService(cfg *config.Config, log *logger.Logger, registry *StrategyRegistry, barProvider provider.BarProvider) OptimizationService {
	return &optimizationService{
		cfg:      cfg,
		log:      log,
		registry: registry,
		optimizer: optimize.NewOptimizer(
			barProvider,
			cfg.Engine,
			log,
			cfg.Optimization.MaxWorkers,
			cfg.Provider.Seed,
		),
	}
}

func (s *optimizationService) WalkForward(ctx context.Context, req dto.WalkForwardRequest) ([]dto.OptimizationResult, error) {
	strategy, err := s.registry.Get(req.StrategyID)
	if err != nil {
		return nil, err
	}
	return s.optimizer.WalkForward(ctx, strategy, req)
}

func (s *optimizationService) MonteCarlo(ctx context.Context, req dto.MonteCarloRequest) ([]dto.OptimizationResult, error) {
	strategy, err := s.registry.Get(req.StrategyID)
	if err != nil {
		return nil, err
	}
	if req.Simulations <= 0 {
		req.Simulations = s.cfg.Optimization.DefaultSimulations
	}
	return s.optimizer.MonteCarlo(ctx, strategy, req)
}

func (s *optimizationService) ParameterSearch(ctx context.Context, req dto.ParameterSearchRequest) (*dto.OptimizationResult, error) {
	strategy, err := s.registry.Get(req.StrategyID)
	if err != nil {
		return nil, err
	}
	return s.optimizer.Search(ctx, strategy, req)
}

func (s *optimizationService) Robustness(ctx context.Context, req dto.RobustnessRequest) (*dto.RobustnessResult, error) {
	strategy, err := s.registry.Get(req.StrategyID)
	if err != nil {
		return nil, err
	}
	return s.optimizer.Robustness(ctx, strategy, req)
}
