// Package ratelimit bounds outbound requests to a market-data feed. Budgets
// are tracked per symbol, so an optimization sweep hammering one symbol does
// not starve fetches for the others.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

const defaultRequestsPerMinute = 60

// SymbolLimiter hands out one token-bucket limiter per symbol, all sharing
// the same requests-per-minute budget.
type SymbolLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewSymbolLimiter creates a limiter store from a per-symbol
// requests-per-minute budget. Non-positive inputs fall back to one request
// per second with a burst of one.
func NewSymbolLimiter(requestsPerMinute, burst int) *SymbolLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}
	if burst < 1 {
		burst = 1
	}
	return &SymbolLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
	}
}

// Wait blocks until the symbol's budget grants a slot or the context is done.
func (s *SymbolLimiter) Wait(ctx context.Context, symbol string) error {
	return s.limiter(symbol).Wait(ctx)
}

// Allow reports whether a request for the symbol may proceed right now,
// consuming a slot when it may.
func (s *SymbolLimiter) Allow(symbol string) bool {
	return s.limiter(symbol).Allow()
}

func (s *SymbolLimiter) limiter(symbol string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, ok := s.limiters[symbol]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(s.limit, s.burst)
	s.limiters[symbol] = limiter
	return limiter
}
