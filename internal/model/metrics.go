package model

// PerformanceMetrics summarizes a completed trade/equity history.
// ProfitFactor is +Inf when there are winning trades and no losers; ratio
// metrics with a zero denominator are 0 rather than NaN.
type PerformanceMetrics struct {
	TotalReturn   float64 `json:"total_return"`
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	ProfitFactor  float64 `json:"profit_factor"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	SortinoRatio  float64 `json:"sortino_ratio"`
	CalmarRatio   float64 `json:"calmar_ratio"`
	ValueAtRisk   float64 `json:"value_at_risk"`
}
