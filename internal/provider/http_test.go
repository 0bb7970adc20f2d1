package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
)

func serveBars(t *testing.T, bars []model.Bar) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/bars", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(barResponse{Bars: bars}))
	}))
}

func TestHTTPProvider_FetchBars(t *testing.T) {
	upstream, err := NewSynthetic(42, 0.02).FetchBars(context.Background(), "TEST",
		date(2024, time.January, 1), date(2024, time.February, 1))
	require.NoError(t, err)

	srv := serveBars(t, upstream)
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 5*time.Second, 600, logger.NewNop())
	bars, err := p.FetchBars(context.Background(), "TEST",
		date(2024, time.January, 1), date(2024, time.February, 1))
	require.NoError(t, err)

	assert.Len(t, bars, len(upstream))
	for i := range bars {
		assert.True(t, bars[i].Timestamp.Equal(upstream[i].Timestamp), "bar %d timestamp", i)
		assert.InDelta(t, upstream[i].Close, bars[i].Close, 1e-9, "bar %d close", i)
	}
}

func TestHTTPProvider_EmptySeriesIsAnError(t *testing.T) {
	srv := serveBars(t, nil)
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 5*time.Second, 600, logger.NewNop())
	_, err := p.FetchBars(context.Background(), "TEST",
		date(2024, time.January, 1), date(2024, time.February, 1))

	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestHTTPProvider_RejectsUnorderedSeries(t *testing.T) {
	ts := date(2024, time.January, 1)
	bars := []model.Bar{
		{Timestamp: ts, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1, Symbol: "TEST"},
		{Timestamp: ts, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1, Symbol: "TEST"},
	}
	srv := serveBars(t, bars)
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 5*time.Second, 600, logger.NewNop())
	_, err := p.FetchBars(context.Background(), "TEST",
		date(2024, time.January, 1), date(2024, time.February, 1))

	assert.Error(t, err)
}

func TestHTTPProvider_UpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 5*time.Second, 600, logger.NewNop())
	_, err := p.FetchBars(context.Background(), "TEST",
		date(2024, time.January, 1), date(2024, time.February, 1))

	assert.Error(t, err)
}

func TestHTTPProvider_InvalidRangeSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 5*time.Second, 600, logger.NewNop())
	_, err := p.FetchBars(context.Background(), "TEST",
		date(2024, time.February, 1), date(2024, time.January, 1))

	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.False(t, called, "no request goes out for a rejected range")
}
