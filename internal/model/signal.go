package model

import "time"

// SignalKind is the decision carried by a signal.
type SignalKind string

const (
	SignalBuy  SignalKind = "buy"
	SignalSell SignalKind = "sell"
	SignalHold SignalKind = "hold"
)

// Signal is a timestamped trading decision. Signals are produced once by the
// signal generator and consumed once by the execution simulator.
type Signal struct {
	Timestamp  time.Time  `json:"timestamp"`
	Kind       SignalKind `json:"kind"`
	Price      float64    `json:"price"`
	Reason     string     `json:"reason"`
	Confidence float64    `json:"confidence"`
}
