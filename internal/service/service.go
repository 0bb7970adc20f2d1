package service

import (
	"golang-backtest/config"
	"golang-backtest/internal/provider"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"
)

// Service bundles the application services behind one wiring point.
type Service struct {
	Registry            *StrategyRegistry
	BacktestService     BacktestService
	OptimizationService OptimizationService
	SchedulerService    SchedulerService
}

// NewService wires the provider stack (base provider behind the memoizing
// cache) into the backtest and optimization services.
func NewService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	baseProvider provider.BarProvider,
) *Service {
	registry := NewStrategyRegistry()
	barProvider := provider.NewCachingProvider(baseProvider, inmemoryCache, cfg.Cache.DefaultExpiration)

	backtestService := NewBacktestService(cfg, log, registry, barProvider)
	optimizationService := NewOptimizationService(cfg, log, registry, barProvider)
	schedulerService := NewSchedulerService(cfg, log, registry, backtestService)

	return &Service{
		Registry:            registry,
		BacktestService:     backtestService,
		OptimizationService: optimizationService,
		SchedulerService:    schedulerService,
	}
}
