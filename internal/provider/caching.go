package provider

import (
	"context"
	"fmt"
	"time"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/cache"
)

// CachingProvider memoizes FetchBars results so an optimization sweep fetches
// each (symbol, range) only once.
type CachingProvider struct {
	next  BarProvider
	cache cache.Cache
	ttl   time.Duration
}

func NewCachingProvider(next BarProvider, c cache.Cache, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		next:  next,
		cache: c,
		ttl:   ttl,
	}
}

func (p *CachingProvider) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	key := fmt.Sprintf("bars:%s:%d:%d", symbol, start.Unix(), end.Unix())
	if bars, ok := cache.GetTyped[[]model.Bar](p.cache, key); ok {
		return bars, nil
	}

	bars, err := p.next.FetchBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, bars, p.ttl)
	return bars, nil
}
