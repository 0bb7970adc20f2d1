package model

import "time"

// OrderSide represents buy or sell.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderKind tags the order variant. Every kind reduces to a market fill once
// its trigger condition holds; the simulator switches exhaustively on this
// tag.
type OrderKind string

const (
	OrderKindMarket  OrderKind = "market"
	OrderKindLimit   OrderKind = "limit"
	OrderKindStop    OrderKind = "stop"
	OrderKindBracket OrderKind = "bracket"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a tagged order variant. LimitPrice is set for limit orders and for
// the entry leg of brackets, StopPrice for stop orders. Bracket orders also
// carry the protective StopLoss/TakeProfit prices armed once the entry fills.
type Order struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Side       OrderSide `json:"side"`
	Kind       OrderKind `json:"kind"`
	Quantity   float64   `json:"quantity"`
	LimitPrice float64   `json:"limit_price,omitempty"`
	StopPrice  float64   `json:"stop_price,omitempty"`
	StopLoss   float64   `json:"stop_loss,omitempty"`
	TakeProfit float64   `json:"take_profit,omitempty"`
}

// OrderResult is the immutable outcome of one execution request.
type OrderResult struct {
	OrderID           string      `json:"order_id"`
	Status            OrderStatus `json:"status"`
	ExecutedQuantity  float64     `json:"executed_quantity"`
	ExecutedPrice     float64     `json:"executed_price"`
	RemainingQuantity float64     `json:"remaining_quantity"`
	Fees              float64     `json:"fees"`
	Slippage          float64     `json:"slippage"`
	Timestamp         time.Time   `json:"timestamp"`
}
