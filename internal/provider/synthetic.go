package provider

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/utils"
)

const defaultStartPrice = 100.0

// Synthetic generates a deterministic random-walk bar series. The same seed,
// symbol and range always produce bit-identical bars, which backtest
// reproducibility depends on.
type Synthetic struct {
	Seed       int64
	Volatility float64 // bounded daily move as a fraction of the open, e.g. 0.02
	Drift      float64 // deterministic daily trend component
	StartPrice float64
}

// NewSynthetic creates a synthetic provider with the given seed and daily
// volatility.
func NewSynthetic(seed int64, volatility float64) *Synthetic {
	return &Synthetic{
		Seed:       seed,
		Volatility: volatility,
		StartPrice: defaultStartPrice,
	}
}

// FetchBars produces one bar per calendar day in [start, end).
func (s *Synthetic) FetchBars(_ context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	start = utils.TruncateToDay(start)
	end = utils.TruncateToDay(end)
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	// The stream is keyed by seed, symbol and start day so distinct symbols
	// walk independently while staying reproducible.
	rng := rand.New(rand.NewSource(s.Seed ^ int64(hashSymbol(symbol)) ^ start.Unix()))

	price := s.StartPrice
	if price <= 0 {
		price = defaultStartPrice
	}

	var bars []model.Bar
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		open := price
		move := (s.Drift + (rng.Float64()*2-1)*s.Volatility) * open
		close := open + move

		pad := math.Abs(move) * 0.5
		high := math.Max(open, close) + pad*rng.Float64()
		low := math.Min(open, close) - pad*rng.Float64()

		bars = append(bars, model.Bar{
			Timestamp: day,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    1_000_000 * (0.5 + rng.Float64()),
			Symbol:    symbol,
		})
		price = close
	}
	return bars, nil
}

func hashSymbol(symbol string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return h.Sum32()
}
