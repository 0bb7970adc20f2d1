package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/ratelimit"
)

// HTTPProvider fetches daily bars from a remote OHLCV endpoint. It is the
// production stand-in for the synthetic generator; the engine does not care
// which one it talks to.
type HTTPProvider struct {
	client  *resty.Client
	limiter *ratelimit.SymbolLimiter
	log     *logger.Logger
}

type barResponse struct {
	Bars []model.Bar `json:"bars"`
}

func NewHTTPProvider(baseURL string, timeout time.Duration, maxRequestPerMin int, log *logger.Logger) *HTTPProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPProvider{
		client:  client,
		limiter: ratelimit.NewSymbolLimiter(maxRequestPerMin, 1),
		log:     log,
	}
}

func (p *HTTPProvider) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	if err := p.limiter.Wait(ctx, symbol); err != nil {
		return nil, err
	}

	var result barResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"start":  start.Format(time.RFC3339),
			"end":    end.Format(time.RFC3339),
		}).
		SetResult(&result).
		Get("/v1/bars")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("bar endpoint returned status %d", resp.StatusCode())
	}

	if len(result.Bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", ErrInvalidRange, symbol)
	}

	if err := validateSeries(result.Bars); err != nil {
		return nil, err
	}

	p.log.DebugContext(ctx, "Fetched bars",
		logger.StringField("symbol", symbol),
		logger.IntField("count", len(result.Bars)),
	)
	return result.Bars, nil
}

// validateSeries enforces the bar invariants on externally sourced data.
func validateSeries(bars []model.Bar) error {
	for i, b := range bars {
		if !b.Valid() {
			return fmt.Errorf("bar %d violates OHLC invariant", i)
		}
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("bar %d timestamp not increasing", i)
		}
	}
	return nil
}
