package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"
)

const scheduledLookbackDays = 180

// SchedulerService periodically re-runs a backtest for every registered
// strategy so performance drift shows up in the logs before anyone asks.
type SchedulerService interface {
	Start(ctx context.Context, symbols []string)
	Stop()
}

type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *StrategyRegistry
	backtest BacktestService
	cron     *cron.Cron
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, registry *StrategyRegistry, backtest BacktestService) SchedulerService {
	return &schedulerService{
		cfg:      cfg,
		log:      log,
		registry: registry,
		backtest: backtest,
		cron:     cron.New(),
	}
}

func (s *schedulerService) Start(ctx context.Context, symbols []string) {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("Scheduler disabled")
		return
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		utils.GoSafe(func() {
			s.runAll(ctx, symbols)
		})
	})
	if err != nil {
		s.log.Error("Failed to register scheduled backtests", logger.ErrorField(err))
		return
	}

	s.cron.Start()
	s.log.Info("Scheduler started", logger.StringField("cron_spec", s.cfg.Scheduler.CronSpec))
}

func (s *schedulerService) Stop() {
	s.cron.Stop()
}

func (s *schedulerService) runAll(ctx context.Context, symbols []string) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -scheduledLookbackDays)

	for _, strategy := range s.registry.List() {
		for _, symbol := range symbols {
			if !utils.ShouldContinue(ctx, s.log) {
				return
			}

			result, err := s.backtest.RunBacktest(ctx, dto.BacktestRequest{
				StrategyID: strategy.ID,
				Symbol:     symbol,
				StartDate:  start,
				EndDate:    end,
			})
			if err != nil {
				s.log.WarnContext(ctx, "Scheduled backtest failed",
					logger.StringField("strategy_id", strategy.ID),
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
				continue
			}

			s.log.InfoContext(ctx, "Scheduled backtest completed",
				logger.StringField("strategy_id", strategy.ID),
				logger.StringField("symbol", symbol),
				logger.Float64Field("total_return", result.TotalReturn),
				logger.Float64Field("max_drawdown", result.MaxDrawdown),
			)
		}
	}
}
