// Package provider supplies ordered bar series to the engine. The synthetic
// provider is the default; an HTTP provider can be swapped in for a real
// feed. Both satisfy the same contract: one bar per calendar day, OHLC
// invariants intact, timestamps strictly increasing.
package provider

import (
	"context"
	"errors"
	"time"

	"golang-backtest/internal/model"
)

// ErrInvalidRange is returned when the end date is not after the start date
// or the range yields no bars.
var ErrInvalidRange = errors.New("invalid date range")

// BarProvider fetches the ordered bar series for a symbol and date range.
// The range is half-open: bars cover [start, end) day by day.
type BarProvider interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error)
}
