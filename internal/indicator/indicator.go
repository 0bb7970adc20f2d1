// Package indicator provides the technical indicators the signal generator
// is built on. SMA and RSI are implemented directly: the moving average uses
// an expanding window during warm-up so crossovers are defined from the first
// bar, and RSI clamps the zero-average-loss case to 100 instead of relying on
// library-specific epsilon behavior. EMA and ATR delegate to go-talib.
package indicator

import (
	"github.com/markcheno/go-talib"
)

// Sma returns the simple moving average of values. During warm-up (fewer
// than period samples) the average is taken over all samples seen so far, so
// the output is defined for every index.
func Sma(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period < 1 {
		period = 1
	}

	var sum float64
	for i, v := range values {
		sum += v
		window := i + 1
		if window > period {
			sum -= values[i-period]
			window = period
		}
		out[i] = sum / float64(window)
	}
	return out
}

// Rsi returns the Wilder-smoothed relative strength index. Values before the
// first full lookback window are padded with the neutral 50. A window with
// zero average loss yields 100, zero average gain yields 0; there is no
// division by zero.
func Rsi(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = 50
	}
	if period < 1 || len(values) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Ema returns the exponential moving average of values.
func Ema(values []float64, period int) []float64 {
	if len(values) < period || period < 1 {
		return make([]float64, len(values))
	}
	return talib.Ema(values, period)
}

// Atr returns the average true range over the given OHLC series.
func Atr(high, low, close []float64, period int) []float64 {
	if len(close) <= period || period < 1 {
		return make([]float64, len(close))
	}
	return talib.Atr(high, low, close, period)
}
