package engine

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-backtest/internal/model"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(0, 0.95, rand.New(rand.NewSource(1)))
}

func closedTrade(day int, entry, exit, qty float64) model.Trade {
	return model.Trade{
		EntryDate:  date(2024, time.January, day),
		ExitDate:   date(2024, time.January, day+1),
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   qty,
		Profit:     (exit - entry) * qty,
		Side:       model.OrderSideBuy,
		Symbol:     "TEST",
	}
}

func flatCurve(days int, value float64) []model.EquityPoint {
	curve := make([]model.EquityPoint, days)
	for i := range curve {
		curve[i] = model.EquityPoint{Timestamp: date(2024, time.January, i+1), Value: value}
	}
	return curve
}

func TestAnalyze_NoTrades(t *testing.T) {
	metrics := newTestAnalyzer().Analyze(nil, flatCurve(10, 100000), 100000)

	assert.Zero(t, metrics.TotalTrades)
	assert.Zero(t, metrics.TotalReturn)
	assert.Zero(t, metrics.WinRate)
	assert.Zero(t, metrics.ProfitFactor)
	assert.Zero(t, metrics.MaxDrawdown)
	assert.Zero(t, metrics.SharpeRatio)
	assert.Zero(t, metrics.SortinoRatio)
	assert.Zero(t, metrics.ValueAtRisk)
}

func TestAnalyze_WinRateAndProfitFactor(t *testing.T) {
	trades := []model.Trade{
		closedTrade(1, 100, 110, 10), // +100
		closedTrade(3, 100, 95, 10),  // -50
		closedTrade(5, 100, 108, 10), // +80
	}

	metrics := newTestAnalyzer().Analyze(trades, flatCurve(10, 100130), 100000)

	assert.Equal(t, 3, metrics.TotalTrades)
	assert.Equal(t, 2, metrics.WinningTrades)
	assert.Equal(t, 1, metrics.LosingTrades)
	assert.InDelta(t, 2.0/3.0, metrics.WinRate, 1e-9)
	assert.InDelta(t, 180.0/50.0, metrics.ProfitFactor, 1e-9)
}

func TestAnalyze_ProfitFactorInfiniteWithoutLosses(t *testing.T) {
	trades := []model.Trade{
		closedTrade(1, 100, 110, 10),
		closedTrade(3, 100, 105, 10),
	}

	metrics := newTestAnalyzer().Analyze(trades, flatCurve(10, 100150), 100000)

	assert.True(t, math.IsInf(metrics.ProfitFactor, 1))
	assert.Equal(t, 1.0, metrics.WinRate)
}

func TestAnalyze_MaxDrawdownFromCumulativePeak(t *testing.T) {
	trades := []model.Trade{
		closedTrade(1, 100, 110, 10), // cumulative +100, peak 100
		closedTrade(3, 100, 92, 10),  // cumulative +20
		closedTrade(5, 100, 94, 10),  // cumulative -40, drawdown 140
		closedTrade(7, 100, 120, 10), // recovery
	}

	metrics := newTestAnalyzer().Analyze(trades, flatCurve(10, 100160), 100000)

	assert.InDelta(t, 140.0, metrics.MaxDrawdown, 1e-9)
}

func TestAnalyze_SharpeZeroOnConstantReturns(t *testing.T) {
	trades := []model.Trade{
		closedTrade(1, 100, 110, 10),
		closedTrade(3, 100, 110, 10),
		closedTrade(5, 100, 110, 10),
	}

	metrics := newTestAnalyzer().Analyze(trades, flatCurve(10, 100300), 100000)

	assert.Zero(t, metrics.SharpeRatio, "zero return dispersion must not divide by zero")
}

func TestAnalyze_SortinoZeroWithoutDownside(t *testing.T) {
	trades := []model.Trade{
		closedTrade(1, 100, 110, 10),
		closedTrade(3, 100, 120, 10),
	}

	metrics := newTestAnalyzer().Analyze(trades, flatCurve(10, 100300), 100000)

	assert.Zero(t, metrics.SortinoRatio)
}

func TestAnalyze_ValueAtRiskNonNegative(t *testing.T) {
	curve := flatCurve(60, 0)
	value := 100000.0
	rng := rand.New(rand.NewSource(7))
	for i := range curve {
		value *= 1 + (rng.Float64()-0.5)*0.04
		curve[i].Value = value
	}

	metrics := newTestAnalyzer().Analyze(nil, curve, 100000)

	assert.GreaterOrEqual(t, metrics.ValueAtRisk, 0.0)
	assert.Positive(t, metrics.ValueAtRisk, "a volatile curve has losses at the 95th percentile")
}

func TestAnalyze_Deterministic(t *testing.T) {
	curve := flatCurve(60, 0)
	value := 100000.0
	rng := rand.New(rand.NewSource(7))
	for i := range curve {
		value *= 1 + (rng.Float64()-0.5)*0.04
		curve[i].Value = value
	}
	trades := []model.Trade{closedTrade(1, 100, 110, 10), closedTrade(3, 100, 95, 10)}

	a := NewAnalyzer(0, 0.95, rand.New(rand.NewSource(42)))
	b := NewAnalyzer(0, 0.95, rand.New(rand.NewSource(42)))

	assert.Equal(t, a.Analyze(trades, curve, 100000), b.Analyze(trades, curve, 100000))
}

func TestAnalyze_TotalReturnFromEquityCurve(t *testing.T) {
	curve := []model.EquityPoint{
		{Timestamp: date(2024, time.January, 1), Value: 100000},
		{Timestamp: date(2024, time.January, 2), Value: 105000},
	}

	metrics := newTestAnalyzer().Analyze(nil, curve, 100000)

	assert.InDelta(t, 0.05, metrics.TotalReturn, 1e-9)
}
