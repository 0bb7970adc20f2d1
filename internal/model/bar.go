package model

import "time"

// Bar is one OHLCV price record. Bars are immutable once produced by a
// provider.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Symbol    string    `json:"symbol"`
}

// Valid reports whether the OHLC invariant holds:
// low <= min(open, close) <= max(open, close) <= high.
func (b Bar) Valid() bool {
	lo, hi := b.Open, b.Close
	if lo > hi {
		lo, hi = hi, lo
	}
	return b.Low <= lo && hi <= b.High
}

// Closes extracts the close prices of a bar series in order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
