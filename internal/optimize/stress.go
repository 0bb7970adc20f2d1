package optimize

import (
	"context"
	"math"
	"time"

	"golang-backtest/internal/model"
	"golang-backtest/internal/provider"
)

// stressProvider rewrites the bars of an underlying provider through a
// scenario transform while preserving the OHLC invariant and bar order.
type stressProvider struct {
	next      provider.BarProvider
	transform func(model.Bar) model.Bar
}

func (p *stressProvider) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	bars, err := p.next.FetchBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]model.Bar, len(bars))
	for i, b := range bars {
		out[i] = p.transform(b)
	}
	return out, nil
}

// volatilitySpike amplifies every bar's move around its open by the factor.
func volatilitySpike(factor float64) func(model.Bar) model.Bar {
	return func(b model.Bar) model.Bar {
		move := (b.Close - b.Open) * factor
		close := b.Open + move
		pad := math.Abs(move) * 0.5

		b.Close = close
		b.High = math.Max(b.Open, close) + pad
		b.Low = math.Min(b.Open, close) - pad
		return b
	}
}

// liquidityDrain divides traded volume by the factor; the matching scenario
// also multiplies the simulator's base slippage.
func liquidityDrain(factor float64) func(model.Bar) model.Bar {
	return func(b model.Bar) model.Bar {
		b.Volume /= factor
		return b
	}
}
