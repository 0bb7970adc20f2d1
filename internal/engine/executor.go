package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"golang-backtest/internal/model"
)

const (
	slippageSizeDivisor = 1000.0
	slippageSizeCap     = 5.0
)

// SimulatorConfig carries the cost model of the execution simulator.
type SimulatorConfig struct {
	FeeRate      float64
	MinimumFee   float64
	BaseSlippage float64
}

// entryState tracks the open lot of one symbol between its first entry fill
// and the bar where quantity returns to zero. Partial closes accumulate here;
// the Trade record is emitted only on the full close.
type entryState struct {
	entryDate time.Time
	realized  float64
	closedQty float64
}

// Simulator turns orders into fills against the current marked prices,
// applying the slippage and fee models, and owns the portfolio ledger for the
// duration of one backtest run. It must never be shared across concurrent
// runs.
type Simulator struct {
	cfg       SimulatorConfig
	portfolio *model.Portfolio
	rng       *rand.Rand

	now     time.Time
	prices  map[string]float64
	pending []*model.Order
	entries map[string]*entryState
	trades  []model.Trade
	log     []model.OrderResult
}

// NewSimulator creates a simulator over a fresh portfolio. The RNG drives the
// slippage draw and must be seeded per run for reproducibility.
func NewSimulator(cfg SimulatorConfig, initialCapital float64, rng *rand.Rand) *Simulator {
	return &Simulator{
		cfg:       cfg,
		portfolio: model.NewPortfolio(initialCapital),
		rng:       rng,
		prices:    make(map[string]float64),
		entries:   make(map[string]*entryState),
	}
}

// Portfolio exposes the ledger. Callers must treat it as read-only.
func (s *Simulator) Portfolio() *model.Portfolio { return s.portfolio }

// Trades returns the closed trades recorded so far, in close order.
func (s *Simulator) Trades() []model.Trade { return s.trades }

// OrderLog returns the result of every execution request, in request order.
func (s *Simulator) OrderLog() []model.OrderResult { return s.log }

// MarkPrice advances the simulator to the given bar: it updates the current
// price of the symbol, revalues the position, then evaluates the pending
// order book against the new price in submission order.
func (s *Simulator) MarkPrice(bar model.Bar) {
	s.now = bar.Timestamp
	s.prices[bar.Symbol] = bar.Close

	if pos, ok := s.portfolio.Positions[bar.Symbol]; ok {
		pos.CurrentPrice = bar.Close
		pos.MarketValue = pos.Quantity * bar.Close
		pos.UnrealizedPnL = (bar.Close - pos.AveragePrice) * pos.Quantity
	}
	s.refreshTotalValue()
	s.evaluatePending()
}

// Position returns the open position for symbol, if any.
func (s *Simulator) Position(symbol string) (*model.Position, bool) {
	pos, ok := s.portfolio.Positions[symbol]
	return pos, ok
}

// ExecuteMarketOrder fills immediately at the marked price adjusted for
// slippage. A buy whose cost exceeds available cash is rejected with
// ErrInsufficientFunds and the ledger is left untouched; a sell beyond the
// held quantity is rejected with ErrInsufficientPosition.
func (s *Simulator) ExecuteMarketOrder(symbol string, quantity float64, side model.OrderSide) (*model.OrderResult, error) {
	return s.fill(&model.Order{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Side:     side,
		Kind:     model.OrderKindMarket,
		Quantity: quantity,
	}, "")
}

// SubmitLimitOrder places a limit order. It fills on the first bar whose
// price satisfies the limit condition; until then it stays pending with zero
// executed quantity. There are no partial fills.
func (s *Simulator) SubmitLimitOrder(symbol string, quantity float64, side model.OrderSide, limitPrice float64) *model.OrderResult {
	return s.submit(&model.Order{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Side:       side,
		Kind:       model.OrderKindLimit,
		Quantity:   quantity,
		LimitPrice: limitPrice,
	})
}

// SubmitStopOrder places a stop order. A sell-stop protecting a long triggers
// once the price falls to or below the stop price; a buy-stop triggers at or
// above it.
func (s *Simulator) SubmitStopOrder(symbol string, quantity float64, side model.OrderSide, stopPrice float64) *model.OrderResult {
	return s.submit(&model.Order{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Side:      side,
		Kind:      model.OrderKindStop,
		Quantity:  quantity,
		StopPrice: stopPrice,
	})
}

// SubmitBracketOrder places an entry limit order that, once filled, arms a
// paired sell-stop at stopLoss and a sell-limit at takeProfit for the same
// quantity. Whichever of the two triggers first during replay closes the
// position and cancels its sibling.
func (s *Simulator) SubmitBracketOrder(symbol string, quantity float64, entryLimit, stopLoss, takeProfit float64) *model.OrderResult {
	return s.submit(&model.Order{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Side:       model.OrderSideBuy,
		Kind:       model.OrderKindBracket,
		Quantity:   quantity,
		LimitPrice: entryLimit,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	})
}

// CancelOrder removes a pending order from the book.
func (s *Simulator) CancelOrder(orderID string) bool {
	for i, o := range s.pending {
		if o.ID == orderID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			s.log = append(s.log, model.OrderResult{
				OrderID:           orderID,
				Status:            model.OrderStatusCancelled,
				RemainingQuantity: o.Quantity,
				Timestamp:         s.now,
			})
			return true
		}
	}
	return false
}

// CancelAll removes every pending order for the symbol.
func (s *Simulator) CancelAll(symbol string) {
	kept := s.pending[:0]
	for _, o := range s.pending {
		if o.Symbol == symbol {
			s.log = append(s.log, model.OrderResult{
				OrderID:           o.ID,
				Status:            model.OrderStatusCancelled,
				RemainingQuantity: o.Quantity,
				Timestamp:         s.now,
			})
			continue
		}
		kept = append(kept, o)
	}
	s.pending = kept
}

func (s *Simulator) submit(order *model.Order) *model.OrderResult {
	s.pending = append(s.pending, order)
	result := model.OrderResult{
		OrderID:           order.ID,
		Status:            model.OrderStatusPending,
		RemainingQuantity: order.Quantity,
		Timestamp:         s.now,
	}
	s.log = append(s.log, result)
	return &result
}

// evaluatePending walks the book in submission order and converts every order
// whose trigger condition holds into a market fill. Rejected fills (e.g.
// insufficient cash at trigger time) cancel the order.
func (s *Simulator) evaluatePending() {
	var kept []*model.Order
	var armed []*model.Order
	var siblingsToCancel []string

	for _, o := range s.pending {
		price, ok := s.prices[o.Symbol]
		if !ok {
			kept = append(kept, o)
			continue
		}

		triggered := false
		switch o.Kind {
		case model.OrderKindLimit:
			triggered = limitSatisfied(o.Side, price, o.LimitPrice)
		case model.OrderKindStop:
			triggered = stopSatisfied(o.Side, price, o.StopPrice)
		case model.OrderKindBracket:
			triggered = limitSatisfied(o.Side, price, o.LimitPrice)
		case model.OrderKindMarket:
			triggered = true
		}

		if !triggered {
			kept = append(kept, o)
			continue
		}

		if _, err := s.fill(o, o.ID); err != nil {
			s.log = append(s.log, model.OrderResult{
				OrderID:           o.ID,
				Status:            model.OrderStatusCancelled,
				RemainingQuantity: o.Quantity,
				Timestamp:         s.now,
			})
			continue
		}

		if o.Kind == model.OrderKindBracket {
			// Entry filled: arm the protective pair on the opposite side.
			armed = append(armed,
				&model.Order{
					ID:        uuid.NewString(),
					Symbol:    o.Symbol,
					Side:      model.OrderSideSell,
					Kind:      model.OrderKindStop,
					Quantity:  o.Quantity,
					StopPrice: o.StopLoss,
				},
				&model.Order{
					ID:         uuid.NewString(),
					Symbol:     o.Symbol,
					Side:       model.OrderSideSell,
					Kind:       model.OrderKindLimit,
					Quantity:   o.Quantity,
					LimitPrice: o.TakeProfit,
				})
		}

		if o.Side == model.OrderSideSell {
			// A triggered exit cancels the remaining exits for the symbol
			// once the position is flat (OCO semantics for brackets).
			if pos, held := s.portfolio.Positions[o.Symbol]; !held || pos.Quantity == 0 {
				siblingsToCancel = append(siblingsToCancel, o.Symbol)
			}
		}
	}
	s.pending = append(kept, armed...)

	for _, symbol := range siblingsToCancel {
		s.CancelAll(symbol)
	}
}

func limitSatisfied(side model.OrderSide, price, limit float64) bool {
	if side == model.OrderSideBuy {
		return price <= limit
	}
	return price >= limit
}

func stopSatisfied(side model.OrderSide, price, stop float64) bool {
	if side == model.OrderSideSell {
		return price <= stop
	}
	return price >= stop
}

// fill executes an order at the marked price with slippage and fees applied.
func (s *Simulator) fill(order *model.Order, id string) (*model.OrderResult, error) {
	if id == "" {
		id = order.ID
	}
	price, ok := s.prices[order.Symbol]
	if !ok || price <= 0 {
		return nil, fmt.Errorf("no marked price for %s", order.Symbol)
	}
	if order.Quantity <= 0 {
		return nil, fmt.Errorf("non-positive quantity %f", order.Quantity)
	}

	slippage := s.slippageFor(order.Quantity)
	execPrice := price * (1 + slippage)
	if order.Side == model.OrderSideSell {
		execPrice = price * (1 - slippage)
	}
	fees := math.Max(order.Quantity*execPrice*s.cfg.FeeRate, s.cfg.MinimumFee)

	switch order.Side {
	case model.OrderSideBuy:
		if err := s.applyBuy(order.Symbol, order.Quantity, execPrice, fees); err != nil {
			return nil, err
		}
	case model.OrderSideSell:
		if err := s.applySell(order.Symbol, order.Quantity, execPrice, fees); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown order side %q", order.Side)
	}

	result := model.OrderResult{
		OrderID:          id,
		Status:           model.OrderStatusFilled,
		ExecutedQuantity: order.Quantity,
		ExecutedPrice:    execPrice,
		Fees:             fees,
		Slippage:         slippage,
		Timestamp:        s.now,
	}
	s.log = append(s.log, result)
	return &result, nil
}

// slippageFor draws the slippage fraction: larger orders suffer
// proportionally more, capped at 5x the base.
func (s *Simulator) slippageFor(quantity float64) float64 {
	sizeMultiplier := math.Min(quantity/slippageSizeDivisor, slippageSizeCap)
	return s.cfg.BaseSlippage * (1 + sizeMultiplier*s.rng.Float64())
}

func (s *Simulator) applyBuy(symbol string, quantity, execPrice, fees float64) error {
	cost := quantity*execPrice + fees
	if cost > s.portfolio.Cash {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, cost, s.portfolio.Cash)
	}

	s.portfolio.Cash -= cost

	pos, held := s.portfolio.Positions[symbol]
	if !held {
		pos = &model.Position{Symbol: symbol}
		s.portfolio.Positions[symbol] = pos
		s.entries[symbol] = &entryState{entryDate: s.now}
	}

	// Quantity-weighted mean of the existing lot and the new one.
	totalQty := pos.Quantity + quantity
	pos.AveragePrice = (pos.AveragePrice*pos.Quantity + execPrice*quantity) / totalQty
	pos.Quantity = totalQty
	pos.CurrentPrice = execPrice
	pos.MarketValue = totalQty * execPrice
	pos.UnrealizedPnL = (execPrice - pos.AveragePrice) * totalQty

	s.refreshTotalValue()
	return nil
}

func (s *Simulator) applySell(symbol string, quantity, execPrice, fees float64) error {
	pos, held := s.portfolio.Positions[symbol]
	if !held || pos.Quantity < quantity {
		return fmt.Errorf("%w: selling %.2f of %s", ErrInsufficientPosition, quantity, symbol)
	}

	s.portfolio.Cash += quantity*execPrice - fees

	entry := s.entries[symbol]
	entry.realized += (execPrice - pos.AveragePrice) * quantity
	entry.closedQty += quantity

	pos.Quantity -= quantity
	pos.CurrentPrice = execPrice
	pos.MarketValue = pos.Quantity * execPrice
	pos.UnrealizedPnL = (execPrice - pos.AveragePrice) * pos.Quantity

	if pos.Quantity == 0 {
		s.trades = append(s.trades, model.Trade{
			EntryDate:  entry.entryDate,
			ExitDate:   s.now,
			EntryPrice: pos.AveragePrice,
			ExitPrice:  execPrice,
			Quantity:   entry.closedQty,
			Profit:     entry.realized,
			Side:       model.OrderSideBuy,
			Symbol:     symbol,
		})
		delete(s.portfolio.Positions, symbol)
		delete(s.entries, symbol)
	}

	s.refreshTotalValue()
	return nil
}

func (s *Simulator) refreshTotalValue() {
	total := s.portfolio.Cash
	for _, pos := range s.portfolio.Positions {
		total += pos.MarketValue
	}
	s.portfolio.TotalValue = total
	s.portfolio.Timestamp = s.now
}
