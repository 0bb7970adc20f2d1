package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/model"
)

func newTestSimulator(capital float64) *Simulator {
	return NewSimulator(SimulatorConfig{
		FeeRate:      0.001,
		MinimumFee:   1.0,
		BaseSlippage: 0,
	}, capital, rand.New(rand.NewSource(1)))
}

func bar(day int, close float64) model.Bar {
	ts := date(2024, time.January, day)
	return model.Bar{
		Timestamp: ts,
		Symbol:    "TEST",
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		Volume:    1000,
	}
}

func TestExecuteMarketOrder_InsufficientFundsLeavesLedgerUntouched(t *testing.T) {
	sim := newTestSimulator(1000)
	sim.MarkPrice(bar(1, 50))

	_, err := sim.ExecuteMarketOrder("TEST", 100, model.OrderSideBuy)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1000.0, sim.Portfolio().Cash)
	_, held := sim.Position("TEST")
	assert.False(t, held)
}

func TestExecuteMarketOrder_AppliesMinimumFee(t *testing.T) {
	sim := newTestSimulator(1000)
	sim.MarkPrice(bar(1, 50))

	result, err := sim.ExecuteMarketOrder("TEST", 10, model.OrderSideBuy)
	require.NoError(t, err)

	// 10 * 50 * 0.001 = 0.5, below the minimum fee of 1.0.
	assert.Equal(t, 1.0, result.Fees)
	assert.Equal(t, 50.0, result.ExecutedPrice)
	assert.InDelta(t, 1000-10*50-1, sim.Portfolio().Cash, 1e-9)
}

func TestExecuteMarketOrder_SellWithoutPosition(t *testing.T) {
	sim := newTestSimulator(1000)
	sim.MarkPrice(bar(1, 50))

	_, err := sim.ExecuteMarketOrder("TEST", 5, model.OrderSideSell)

	assert.ErrorIs(t, err, ErrInsufficientPosition)
	assert.Equal(t, 1000.0, sim.Portfolio().Cash)
}

func TestExecuteMarketOrder_AveragePriceIsQuantityWeighted(t *testing.T) {
	sim := newTestSimulator(5000)

	sim.MarkPrice(bar(1, 10))
	_, err := sim.ExecuteMarketOrder("TEST", 100, model.OrderSideBuy)
	require.NoError(t, err)

	sim.MarkPrice(bar(2, 20))
	_, err = sim.ExecuteMarketOrder("TEST", 100, model.OrderSideBuy)
	require.NoError(t, err)

	pos, held := sim.Position("TEST")
	require.True(t, held)
	assert.Equal(t, 200.0, pos.Quantity)
	assert.InDelta(t, 15.0, pos.AveragePrice, 1e-9)
}

func TestSimulator_TradeEmittedOnlyOnFullClose(t *testing.T) {
	sim := newTestSimulator(5000)

	sim.MarkPrice(bar(1, 10))
	_, err := sim.ExecuteMarketOrder("TEST", 100, model.OrderSideBuy)
	require.NoError(t, err)

	sim.MarkPrice(bar(2, 12))
	_, err = sim.ExecuteMarketOrder("TEST", 40, model.OrderSideSell)
	require.NoError(t, err)
	assert.Empty(t, sim.Trades(), "partial close must not emit a trade")

	sim.MarkPrice(bar(3, 12))
	_, err = sim.ExecuteMarketOrder("TEST", 60, model.OrderSideSell)
	require.NoError(t, err)

	trades := sim.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, 100.0, trades[0].Quantity)
	assert.InDelta(t, 200.0, trades[0].Profit, 1e-9)
	assert.Equal(t, date(2024, time.January, 1), trades[0].EntryDate)
	assert.Equal(t, date(2024, time.January, 3), trades[0].ExitDate)
	assert.InDelta(t, 10.0, trades[0].EntryPrice, 1e-9)
	assert.InDelta(t, 12.0, trades[0].ExitPrice, 1e-9)

	_, held := sim.Position("TEST")
	assert.False(t, held, "full close must remove the position")
}

func TestSubmitLimitOrder_FillsWhenPriceReachesLimit(t *testing.T) {
	sim := newTestSimulator(10000)
	sim.MarkPrice(bar(1, 100))

	result := sim.SubmitLimitOrder("TEST", 10, model.OrderSideBuy, 95)
	assert.Equal(t, model.OrderStatusPending, result.Status)

	sim.MarkPrice(bar(2, 97))
	_, held := sim.Position("TEST")
	assert.False(t, held, "limit must not fill above the limit price")

	sim.MarkPrice(bar(3, 94))
	pos, held := sim.Position("TEST")
	require.True(t, held)
	assert.Equal(t, 10.0, pos.Quantity)
	assert.InDelta(t, 94.0, pos.AveragePrice, 1e-9)
}

func TestSubmitStopOrder_SellStopTriggersAtOrBelowStop(t *testing.T) {
	sim := newTestSimulator(10000)

	sim.MarkPrice(bar(1, 100))
	_, err := sim.ExecuteMarketOrder("TEST", 50, model.OrderSideBuy)
	require.NoError(t, err)
	sim.SubmitStopOrder("TEST", 50, model.OrderSideSell, 95)

	sim.MarkPrice(bar(2, 96))
	_, held := sim.Position("TEST")
	assert.True(t, held, "stop must not trigger above the stop price")

	sim.MarkPrice(bar(3, 94))
	_, held = sim.Position("TEST")
	assert.False(t, held)

	trades := sim.Trades()
	require.Len(t, trades, 1)
	assert.InDelta(t, 94.0, trades[0].ExitPrice, 1e-9)
	assert.InDelta(t, (94.0-100.0)*50, trades[0].Profit, 1e-9)
}

func TestSubmitBracketOrder_TakeProfitCancelsStop(t *testing.T) {
	sim := newTestSimulator(10000)

	sim.SubmitBracketOrder("TEST", 10, 100, 90, 110)

	// Entry limit fills on the first marked price at or below 100 and arms
	// the protective pair.
	sim.MarkPrice(bar(1, 100))
	pos, held := sim.Position("TEST")
	require.True(t, held)
	assert.Equal(t, 10.0, pos.Quantity)

	sim.MarkPrice(bar(2, 111))
	_, held = sim.Position("TEST")
	assert.False(t, held)

	trades := sim.Trades()
	require.Len(t, trades, 1)
	assert.InDelta(t, 111.0, trades[0].ExitPrice, 1e-9)

	var cancelled int
	for _, r := range sim.OrderLog() {
		if r.Status == model.OrderStatusCancelled {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled, "the surviving sibling must be cancelled, not filled")
}

func TestSubmitBracketOrder_StopSideCloses(t *testing.T) {
	sim := newTestSimulator(10000)

	sim.SubmitBracketOrder("TEST", 10, 100, 90, 110)
	sim.MarkPrice(bar(1, 100))

	sim.MarkPrice(bar(2, 89))
	_, held := sim.Position("TEST")
	assert.False(t, held)

	trades := sim.Trades()
	require.Len(t, trades, 1)
	assert.Negative(t, trades[0].Profit)
}

func TestCancelOrder(t *testing.T) {
	sim := newTestSimulator(10000)
	sim.MarkPrice(bar(1, 100))

	result := sim.SubmitLimitOrder("TEST", 10, model.OrderSideBuy, 95)

	assert.True(t, sim.CancelOrder(result.OrderID))
	assert.False(t, sim.CancelOrder(result.OrderID), "cancelling twice must fail")

	sim.MarkPrice(bar(2, 90))
	_, held := sim.Position("TEST")
	assert.False(t, held, "cancelled order must never fill")
}

func TestMarkPrice_RevaluesOpenPosition(t *testing.T) {
	sim := newTestSimulator(10000)

	sim.MarkPrice(bar(1, 100))
	_, err := sim.ExecuteMarketOrder("TEST", 10, model.OrderSideBuy)
	require.NoError(t, err)

	sim.MarkPrice(bar(2, 105))

	pos, held := sim.Position("TEST")
	require.True(t, held)
	assert.Equal(t, 105.0, pos.CurrentPrice)
	assert.InDelta(t, 1050.0, pos.MarketValue, 1e-9)
	assert.InDelta(t, 50.0, pos.UnrealizedPnL, 1e-9)
	assert.InDelta(t, sim.Portfolio().Cash+1050.0, sim.Portfolio().TotalValue, 1e-9)
}
