package engine

import (
	"fmt"
	"math"

	"golang-backtest/internal/indicator"
	"golang-backtest/internal/model"
)

const (
	// ParamFastPeriod and friends are the well-known parameter names the
	// built-in strategy families resolve from their binding.
	ParamFastPeriod = "fast_period"
	ParamSlowPeriod = "slow_period"
	ParamRSIPeriod  = "rsi_period"
	ParamOversold   = "oversold"
	ParamOverbought = "overbought"
	ParamATRPeriod  = "atr_period"

	crossoverConfidence = 0.7
)

// ValidateStrategy checks a strategy definition and an optional parameter
// binding before any backtest starts. A binding value outside the declared
// [min, max] bounds, a missing required parameter or an unknown category all
// yield ErrInvalidStrategy.
func ValidateStrategy(strategy *model.StrategyDefinition, binding model.ParameterBinding) error {
	if strategy == nil {
		return fmt.Errorf("%w: nil strategy", ErrInvalidStrategy)
	}

	for name, value := range binding {
		def, ok := findParameter(strategy, name)
		if !ok {
			return fmt.Errorf("%w: unknown parameter %q", ErrInvalidStrategy, name)
		}
		if def.Min != nil && value < *def.Min {
			return fmt.Errorf("%w: parameter %q below minimum", ErrInvalidStrategy, name)
		}
		if def.Max != nil && value > *def.Max {
			return fmt.Errorf("%w: parameter %q above maximum", ErrInvalidStrategy, name)
		}
	}

	switch strategy.Category {
	case model.CategoryMomentum, model.CategoryTrendFollowing:
		fast := strategy.Resolve(binding, ParamFastPeriod)
		slow := strategy.Resolve(binding, ParamSlowPeriod)
		if fast < 1 || slow < 1 {
			return fmt.Errorf("%w: %s and %s are required", ErrInvalidStrategy, ParamFastPeriod, ParamSlowPeriod)
		}
		if fast >= slow {
			return fmt.Errorf("%w: %s must be less than %s", ErrInvalidStrategy, ParamFastPeriod, ParamSlowPeriod)
		}
	case model.CategoryMeanReversion:
		period := strategy.Resolve(binding, ParamRSIPeriod)
		oversold := strategy.Resolve(binding, ParamOversold)
		overbought := strategy.Resolve(binding, ParamOverbought)
		if period < 2 {
			return fmt.Errorf("%w: %s is required", ErrInvalidStrategy, ParamRSIPeriod)
		}
		if oversold <= 0 || overbought <= oversold || overbought >= 100 {
			return fmt.Errorf("%w: oversold/overbought thresholds are inconsistent", ErrInvalidStrategy)
		}
	default:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidStrategy, strategy.Category)
	}
	return nil
}

func findParameter(strategy *model.StrategyDefinition, name string) (model.ParameterDefinition, bool) {
	for _, p := range strategy.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return model.ParameterDefinition{}, false
}

// GenerateSignals converts a strategy definition plus a bar series into an
// ordered signal sequence. A series shorter than the longest lookback yields
// an empty sequence, not an error. Signals follow bar order, so timestamps
// are non-decreasing.
func GenerateSignals(strategy *model.StrategyDefinition, binding model.ParameterBinding, bars []model.Bar) ([]model.Signal, error) {
	if err := ValidateStrategy(strategy, binding); err != nil {
		return nil, err
	}

	switch strategy.Category {
	case model.CategoryMomentum:
		return smaCrossoverSignals(strategy, binding, bars), nil
	case model.CategoryMeanReversion:
		return rsiReversionSignals(strategy, binding, bars), nil
	case model.CategoryTrendFollowing:
		return emaTrendSignals(strategy, binding, bars), nil
	}
	return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidStrategy, strategy.Category)
}

// smaCrossoverSignals emits buy when the fast SMA crosses from at-or-below to
// above the slow SMA on consecutive bars, sell on the reverse cross. The
// averages use an expanding window during warm-up, so the first divergence of
// the two windows counts as a cross.
func smaCrossoverSignals(strategy *model.StrategyDefinition, binding model.ParameterBinding, bars []model.Bar) []model.Signal {
	slowPeriod := int(strategy.Resolve(binding, ParamSlowPeriod))
	fastPeriod := int(strategy.Resolve(binding, ParamFastPeriod))
	if len(bars) < slowPeriod {
		return nil
	}

	closes := model.Closes(bars)
	fast := indicator.Sma(closes, fastPeriod)
	slow := indicator.Sma(closes, slowPeriod)

	var signals []model.Signal
	for i := 1; i < len(bars); i++ {
		switch {
		case fast[i-1] <= slow[i-1] && fast[i] > slow[i]:
			signals = append(signals, model.Signal{
				Timestamp:  bars[i].Timestamp,
				Kind:       model.SignalBuy,
				Price:      bars[i].Close,
				Reason:     fmt.Sprintf("SMA(%d) crossed above SMA(%d)", fastPeriod, slowPeriod),
				Confidence: crossoverConfidence,
			})
		case fast[i-1] >= slow[i-1] && fast[i] < slow[i]:
			signals = append(signals, model.Signal{
				Timestamp:  bars[i].Timestamp,
				Kind:       model.SignalSell,
				Price:      bars[i].Close,
				Reason:     fmt.Sprintf("SMA(%d) crossed below SMA(%d)", fastPeriod, slowPeriod),
				Confidence: crossoverConfidence,
			})
		}
	}
	return signals
}

// rsiReversionSignals emits buy at or under the oversold threshold and sell
// at or over the overbought threshold. Confidence grows with the distance
// past the threshold.
func rsiReversionSignals(strategy *model.StrategyDefinition, binding model.ParameterBinding, bars []model.Bar) []model.Signal {
	period := int(strategy.Resolve(binding, ParamRSIPeriod))
	oversold := strategy.Resolve(binding, ParamOversold)
	overbought := strategy.Resolve(binding, ParamOverbought)
	if len(bars) <= period {
		return nil
	}

	rsi := indicator.Rsi(model.Closes(bars), period)

	var signals []model.Signal
	for i := period + 1; i < len(bars); i++ {
		switch {
		case rsi[i] <= oversold:
			signals = append(signals, model.Signal{
				Timestamp:  bars[i].Timestamp,
				Kind:       model.SignalBuy,
				Price:      bars[i].Close,
				Reason:     fmt.Sprintf("RSI(%d) at %.1f below oversold %.0f", period, rsi[i], oversold),
				Confidence: reversionConfidence(oversold - rsi[i]),
			})
		case rsi[i] >= overbought:
			signals = append(signals, model.Signal{
				Timestamp:  bars[i].Timestamp,
				Kind:       model.SignalSell,
				Price:      bars[i].Close,
				Reason:     fmt.Sprintf("RSI(%d) at %.1f above overbought %.0f", period, rsi[i], overbought),
				Confidence: reversionConfidence(rsi[i] - overbought),
			})
		}
	}
	return signals
}

func reversionConfidence(excess float64) float64 {
	return math.Min(0.95, 0.6+excess/100)
}

// emaTrendSignals is the EMA crossover family. Confidence scales with the
// ATR-relative volatility at the crossing bar.
func emaTrendSignals(strategy *model.StrategyDefinition, binding model.ParameterBinding, bars []model.Bar) []model.Signal {
	fastPeriod := int(strategy.Resolve(binding, ParamFastPeriod))
	slowPeriod := int(strategy.Resolve(binding, ParamSlowPeriod))
	atrPeriod := int(strategy.Resolve(binding, ParamATRPeriod))
	if atrPeriod < 1 {
		atrPeriod = 14
	}
	if len(bars) <= slowPeriod || len(bars) <= atrPeriod {
		return nil
	}

	closes := model.Closes(bars)
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}

	fast := indicator.Ema(closes, fastPeriod)
	slow := indicator.Ema(closes, slowPeriod)
	atr := indicator.Atr(highs, lows, closes, atrPeriod)

	start := slowPeriod
	if atrPeriod+1 > start {
		start = atrPeriod + 1
	}

	var signals []model.Signal
	for i := start; i < len(bars); i++ {
		confidence := trendConfidence(atr[i], closes[i])
		switch {
		case fast[i-1] <= slow[i-1] && fast[i] > slow[i]:
			signals = append(signals, model.Signal{
				Timestamp:  bars[i].Timestamp,
				Kind:       model.SignalBuy,
				Price:      bars[i].Close,
				Reason:     fmt.Sprintf("EMA(%d) crossed above EMA(%d)", fastPeriod, slowPeriod),
				Confidence: confidence,
			})
		case fast[i-1] >= slow[i-1] && fast[i] < slow[i]:
			signals = append(signals, model.Signal{
				Timestamp:  bars[i].Timestamp,
				Kind:       model.SignalSell,
				Price:      bars[i].Close,
				Reason:     fmt.Sprintf("EMA(%d) crossed below EMA(%d)", fastPeriod, slowPeriod),
				Confidence: confidence,
			})
		}
	}
	return signals
}

func trendConfidence(atr, close float64) float64 {
	if close <= 0 {
		return 0.55
	}
	return math.Min(0.9, 0.55+5*atr/close)
}
