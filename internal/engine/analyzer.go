package engine

import (
	"math"
	"math/rand"
	"sort"

	"golang-backtest/internal/model"
)

const varScenarios = 1000

// Analyzer computes performance and risk statistics over a completed trade
// and equity history. Every ratio with a zero denominator returns its defined
// sentinel (0, or +Inf for the profit factor) instead of NaN.
type Analyzer struct {
	riskFreeRate  float64
	varConfidence float64
	rng           *rand.Rand
}

// NewAnalyzer creates an analyzer. The RNG drives the VaR resampling and must
// be seeded per run for reproducibility.
func NewAnalyzer(riskFreeRate, varConfidence float64, rng *rand.Rand) *Analyzer {
	if varConfidence <= 0 || varConfidence >= 1 {
		varConfidence = 0.95
	}
	return &Analyzer{
		riskFreeRate:  riskFreeRate,
		varConfidence: varConfidence,
		rng:           rng,
	}
}

// Analyze produces the full metrics record for one backtest run.
func (a *Analyzer) Analyze(trades []model.Trade, equityCurve []model.EquityPoint, initialCapital float64) model.PerformanceMetrics {
	metrics := model.PerformanceMetrics{}

	finalCapital := initialCapital
	if len(equityCurve) > 0 {
		finalCapital = equityCurve[len(equityCurve)-1].Value
	}
	if initialCapital > 0 {
		metrics.TotalReturn = finalCapital/initialCapital - 1
	}

	metrics.TotalTrades = len(trades)
	var grossProfit, grossLoss float64
	for _, t := range trades {
		if t.Profit > 0 {
			metrics.WinningTrades++
			grossProfit += t.Profit
		} else {
			metrics.LosingTrades++
			grossLoss += t.Profit
		}
	}

	if metrics.TotalTrades > 0 {
		metrics.WinRate = float64(metrics.WinningTrades) / float64(metrics.TotalTrades)
	}

	switch {
	case grossLoss != 0:
		metrics.ProfitFactor = grossProfit / math.Abs(grossLoss)
	case grossProfit > 0:
		metrics.ProfitFactor = math.Inf(1)
	}

	metrics.MaxDrawdown = maxDrawdown(trades)
	metrics.SharpeRatio = a.sharpe(trades)
	metrics.SortinoRatio = a.sortino(trades)
	metrics.CalmarRatio = calmar(metrics.TotalReturn, metrics.MaxDrawdown, initialCapital)
	metrics.ValueAtRisk = a.valueAtRisk(equityCurve, finalCapital)

	return metrics
}

// maxDrawdown is the largest decline from the running peak of cumulative
// trade profit.
func maxDrawdown(trades []model.Trade) float64 {
	var cumulative, peak, maxDD float64
	for _, t := range trades {
		cumulative += t.Profit
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// tradeReturns converts trades into per-trade fractional returns on the
// capital committed to each trade.
func tradeReturns(trades []model.Trade) []float64 {
	var returns []float64
	for _, t := range trades {
		notional := t.EntryPrice * t.Quantity
		if notional <= 0 {
			continue
		}
		returns = append(returns, t.Profit/notional)
	}
	return returns
}

func (a *Analyzer) sharpe(trades []model.Trade) float64 {
	returns := tradeReturns(trades)
	if len(returns) == 0 {
		return 0
	}
	m := mean(returns)
	sd := stdDev(returns, m)
	if sd == 0 {
		return 0
	}
	return (m - a.riskFreeRate) / sd
}

func (a *Analyzer) sortino(trades []model.Trade) float64 {
	returns := tradeReturns(trades)
	if len(returns) == 0 {
		return 0
	}
	m := mean(returns)

	var downside float64
	var n int
	for _, r := range returns {
		if r < 0 {
			downside += r * r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	dd := math.Sqrt(downside / float64(n))
	if dd == 0 {
		return 0
	}
	return (m - a.riskFreeRate) / dd
}

func calmar(totalReturn, maxDD, initialCapital float64) float64 {
	if maxDD <= 0 || initialCapital <= 0 {
		return 0
	}
	return totalReturn / (maxDD / initialCapital)
}

// valueAtRisk estimates the maximum loss at the configured confidence level
// using historical simulation: resample the observed equity returns, sort the
// scenarios ascending and take the (1-c) percentile, negated and scaled by
// the portfolio value. Equity-curve returns already reflect position sizing,
// so for this single-symbol pipeline they stand in for per-symbol,
// position-weighted return histories.
func (a *Analyzer) valueAtRisk(equityCurve []model.EquityPoint, portfolioValue float64) float64 {
	returns := equityReturns(equityCurve)
	if len(returns) == 0 || portfolioValue <= 0 {
		return 0
	}

	scenarios := make([]float64, varScenarios)
	for i := range scenarios {
		scenarios[i] = returns[a.rng.Intn(len(returns))]
	}
	sort.Float64s(scenarios)

	idx := int((1 - a.varConfidence) * float64(len(scenarios)))
	if idx >= len(scenarios) {
		idx = len(scenarios) - 1
	}

	loss := -scenarios[idx] * portfolioValue
	if loss < 0 {
		return 0
	}
	return loss
}

func equityReturns(equityCurve []model.EquityPoint) []float64 {
	var returns []float64
	for i := 1; i < len(equityCurve); i++ {
		prev := equityCurve[i-1].Value
		if prev <= 0 {
			continue
		}
		returns = append(returns, equityCurve[i].Value/prev-1)
	}
	return returns
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
