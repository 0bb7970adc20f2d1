package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/internal/provider"
	"golang-backtest/pkg/logger"
)

// RunState is the lifecycle state of one backtest run. States advance
// strictly forward; Completed and Failed are terminal.
type RunState string

const (
	StateInitialized      RunState = "initialized"
	StateDataFetched      RunState = "data_fetched"
	StateSignalsGenerated RunState = "signals_generated"
	StateSimulating       RunState = "simulating"
	StateCompleted        RunState = "completed"
	StateFailed           RunState = "failed"
)

// Runner orchestrates signal generation, execution simulation and analysis
// for one (strategy, symbol, date range, capital) tuple. A Runner is
// stateless across runs; every invocation gets a private portfolio and a
// private seeded RNG, so concurrent runs never share mutable state.
type Runner struct {
	provider provider.BarProvider
	cfg      config.Engine
	log      *logger.Logger
}

func NewRunner(p provider.BarProvider, cfg config.Engine, log *logger.Logger) *Runner {
	return &Runner{
		provider: p,
		cfg:      cfg,
		log:      log,
	}
}

// Run executes one backtest and returns its terminal result. Errors fail
// this invocation only.
func (r *Runner) Run(ctx context.Context, strategy *model.StrategyDefinition, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	state := StateInitialized

	fail := func(err error) (*dto.BacktestResult, error) {
		r.log.WarnContext(ctx, "Backtest failed",
			logger.StringField("strategy", strategy.ID),
			logger.StringField("symbol", req.Symbol),
			logger.StringField("state", string(state)),
			logger.ErrorField(err),
		)
		state = StateFailed
		return nil, err
	}

	if err := ValidateStrategy(strategy, req.Parameters); err != nil {
		return fail(err)
	}

	initialCapital := req.InitialCapital
	if initialCapital <= 0 {
		initialCapital = r.cfg.InitialCapital
	}

	bars, err := r.provider.FetchBars(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		return fail(err)
	}
	if len(bars) == 0 {
		return fail(fmt.Errorf("%w: no bars for %s", provider.ErrInvalidRange, req.Symbol))
	}
	state = StateDataFetched

	signals, err := GenerateSignals(strategy, req.Parameters, bars)
	if err != nil {
		return fail(err)
	}
	state = StateSignalsGenerated

	state = StateSimulating
	rng := rand.New(rand.NewSource(r.runSeed(req)))
	sim := NewSimulator(SimulatorConfig{
		FeeRate:      r.cfg.FeeRate,
		MinimumFee:   r.cfg.MinimumFee,
		BaseSlippage: r.cfg.BaseSlippage,
	}, initialCapital, rng)

	equityCurve := r.replay(ctx, sim, strategy, bars, signals)

	analyzer := NewAnalyzer(r.cfg.RiskFreeRate, r.cfg.VaRConfidence, rng)
	metrics := analyzer.Analyze(sim.Trades(), equityCurve, initialCapital)
	state = StateCompleted

	finalCapital := initialCapital
	if len(equityCurve) > 0 {
		finalCapital = equityCurve[len(equityCurve)-1].Value
	}

	result := &dto.BacktestResult{
		StrategyID:     strategy.ID,
		Symbol:         req.Symbol,
		Period:         dto.Period{StartDate: req.StartDate, EndDate: req.EndDate},
		InitialCapital: initialCapital,
		FinalCapital:   finalCapital,
		TotalReturn:    metrics.TotalReturn,
		TotalTrades:    metrics.TotalTrades,
		WinRate:        metrics.WinRate,
		ProfitFactor:   metrics.ProfitFactor,
		MaxDrawdown:    metrics.MaxDrawdown,
		SharpeRatio:    metrics.SharpeRatio,
		Metrics:        metrics,
		Trades:         sim.Trades(),
	}

	r.log.DebugContext(ctx, "Backtest completed",
		logger.StringField("state", string(state)),
		logger.StringField("strategy", strategy.ID),
		logger.StringField("symbol", req.Symbol),
		logger.IntField("total_trades", result.TotalTrades),
		logger.Float64Field("total_return", result.TotalReturn),
	)
	return result, nil
}

// replay walks the bar series in order: mark the price (which also evaluates
// pending protective orders), act on the signals of that bar, then sample the
// equity curve. Any position still open after the last bar is closed at the
// final price so the run ends flat.
func (r *Runner) replay(ctx context.Context, sim *Simulator, strategy *model.StrategyDefinition, bars []model.Bar, signals []model.Signal) []model.EquityPoint {
	allocation := r.cfg.AllocationFraction
	if allocation <= 0 || allocation > 1 {
		allocation = 0.95
	}

	equityCurve := make([]model.EquityPoint, 0, len(bars))
	next := 0

	for _, bar := range bars {
		sim.MarkPrice(bar)

		for next < len(signals) && !signals[next].Timestamp.After(bar.Timestamp) {
			r.applySignal(ctx, sim, strategy, bar, signals[next], allocation)
			next++
		}

		equityCurve = append(equityCurve, model.EquityPoint{
			Timestamp: bar.Timestamp,
			Value:     sim.Portfolio().TotalValue,
		})
	}

	if len(bars) > 0 {
		last := bars[len(bars)-1]
		if pos, held := sim.Position(last.Symbol); held && pos.Quantity > 0 {
			sim.CancelAll(last.Symbol)
			if _, err := sim.ExecuteMarketOrder(last.Symbol, pos.Quantity, model.OrderSideSell); err != nil {
				r.log.WarnContext(ctx, "Failed to liquidate at end of backtest", logger.ErrorField(err))
			}
			equityCurve[len(equityCurve)-1].Value = sim.Portfolio().TotalValue
		}
	}
	return equityCurve
}

// applySignal enters on a buy when flat and exits fully on a sell. Buy
// signals while a position is open are ignored; the protective exit orders
// from the risk rules handle everything in between.
func (r *Runner) applySignal(ctx context.Context, sim *Simulator, strategy *model.StrategyDefinition, bar model.Bar, signal model.Signal, allocation float64) {
	switch signal.Kind {
	case model.SignalBuy:
		if _, held := sim.Position(bar.Symbol); held {
			return
		}
		quantity := math.Floor(sim.Portfolio().Cash * allocation / bar.Close)
		if quantity < 1 {
			return
		}
		result, err := sim.ExecuteMarketOrder(bar.Symbol, quantity, model.OrderSideBuy)
		if err != nil {
			r.log.DebugContext(ctx, "Entry rejected", logger.ErrorField(err))
			return
		}
		r.placeRiskExits(sim, strategy, bar.Symbol, quantity, result.ExecutedPrice)

	case model.SignalSell:
		pos, held := sim.Position(bar.Symbol)
		if !held || pos.Quantity <= 0 {
			return
		}
		sim.CancelAll(bar.Symbol)
		if _, err := sim.ExecuteMarketOrder(bar.Symbol, pos.Quantity, model.OrderSideSell); err != nil {
			r.log.DebugContext(ctx, "Exit rejected", logger.ErrorField(err))
		}
	}
}

// placeRiskExits arms the strategy's protective rules around a fresh entry.
func (r *Runner) placeRiskExits(sim *Simulator, strategy *model.StrategyDefinition, symbol string, quantity, entryPrice float64) {
	for _, rule := range strategy.RiskRules {
		switch rule.Kind {
		case model.RiskRuleStopLoss:
			sim.SubmitStopOrder(symbol, quantity, model.OrderSideSell, entryPrice*(1-rule.Value))
		case model.RiskRuleTakeProfit:
			sim.SubmitLimitOrder(symbol, quantity, model.OrderSideSell, entryPrice*(1+rule.Value))
		}
	}
}

// runSeed derives the per-run RNG seed so parallel runs are reproducible,
// order-independent and distinct across symbols.
func (r *Runner) runSeed(req dto.BacktestRequest) int64 {
	if req.Seed != nil {
		return *req.Seed
	}
	h := fnv.New32a()
	h.Write([]byte(req.Symbol))
	return req.StartDate.Unix() ^ int64(h.Sum32())<<32
}
