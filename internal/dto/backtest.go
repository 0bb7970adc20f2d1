package dto

import (
	"time"

	"golang-backtest/internal/model"
)

// BacktestRequest defines the parameters of a single backtest run.
// InitialCapital falls back to the configured default when zero.
type BacktestRequest struct {
	StrategyID     string                 `json:"strategy_id" validate:"required"`
	Symbol         string                 `json:"symbol" validate:"required"`
	StartDate      time.Time              `json:"start_date" validate:"required"`
	EndDate        time.Time              `json:"end_date" validate:"required"`
	InitialCapital float64                `json:"initial_capital"`
	Parameters     model.ParameterBinding `json:"parameters,omitempty"`
	Seed           *int64                 `json:"seed,omitempty"`
}

// Period is a closed date range.
type Period struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// BacktestResult is the terminal, read-only output of one backtest run.
type BacktestResult struct {
	StrategyID     string                   `json:"strategy_id"`
	Symbol         string                   `json:"symbol"`
	Period         Period                   `json:"period"`
	InitialCapital float64                  `json:"initial_capital"`
	FinalCapital   float64                  `json:"final_capital"`
	TotalReturn    float64                  `json:"total_return"`
	TotalTrades    int                      `json:"total_trades"`
	WinRate        float64                  `json:"win_rate"`
	ProfitFactor   float64                  `json:"profit_factor"`
	MaxDrawdown    float64                  `json:"max_drawdown"`
	SharpeRatio    float64                  `json:"sharpe_ratio"`
	Metrics        model.PerformanceMetrics `json:"metrics"`
	Trades         []model.Trade            `json:"trades"`
}
