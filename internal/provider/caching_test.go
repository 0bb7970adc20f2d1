package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/cache"
)

type countingProvider struct {
	next  BarProvider
	calls int
}

func (p *countingProvider) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	p.calls++
	return p.next.FetchBars(ctx, symbol, start, end)
}

func TestCachingProvider_MemoizesPerRange(t *testing.T) {
	inner := &countingProvider{next: NewSynthetic(42, 0.02)}
	p := NewCachingProvider(inner, cache.NewCache(time.Minute, time.Minute), time.Minute)

	start := date(2024, time.January, 1)
	end := date(2024, time.March, 1)

	first, err := p.FetchBars(context.Background(), "TEST", start, end)
	require.NoError(t, err)
	second, err := p.FetchBars(context.Background(), "TEST", start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "second fetch must come from the cache")

	_, err = p.FetchBars(context.Background(), "OTHER", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "a different symbol is a different cache entry")

	_, err = p.FetchBars(context.Background(), "TEST", start, end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls, "a different range is a different cache entry")
}

type failingProvider struct{}

func (failingProvider) FetchBars(context.Context, string, time.Time, time.Time) ([]model.Bar, error) {
	return nil, errors.New("upstream down")
}

func TestCachingProvider_DoesNotCacheErrors(t *testing.T) {
	p := NewCachingProvider(failingProvider{}, cache.NewCache(time.Minute, time.Minute), time.Minute)

	_, err := p.FetchBars(context.Background(), "TEST", date(2024, time.January, 1), date(2024, time.March, 1))

	assert.Error(t, err)
}
