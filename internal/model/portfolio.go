package model

import "time"

// Position is the open holding of one symbol. It is owned exclusively by the
// execution simulator's ledger and mutated on every fill. Quantity never goes
// negative in the long-only simulation.
type Position struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	AveragePrice  float64 `json:"average_price"`
	CurrentPrice  float64 `json:"current_price"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// Trade is the canonical unit fed to the analyzer, created when a position
// transitions to fully closed. Immutable afterward.
type Trade struct {
	EntryDate  time.Time `json:"entry_date"`
	ExitDate   time.Time `json:"exit_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	Profit     float64   `json:"profit"`
	Side       OrderSide `json:"side"`
	Symbol     string    `json:"symbol"`
	ExitReason string    `json:"exit_reason,omitempty"`
}

// Portfolio is the mutable aggregate owned by one backtest run. It is created
// fresh at the start of the run and discarded once the result is extracted.
type Portfolio struct {
	Positions  map[string]*Position `json:"positions"`
	Cash       float64              `json:"cash"`
	TotalValue float64              `json:"total_value"`
	Timestamp  time.Time            `json:"timestamp"`
}

// NewPortfolio creates an empty portfolio holding only cash.
func NewPortfolio(cash float64) *Portfolio {
	return &Portfolio{
		Positions:  make(map[string]*Position),
		Cash:       cash,
		TotalValue: cash,
	}
}

// EquityPoint is one sample of the portfolio value over time.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}
