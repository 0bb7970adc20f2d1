package optimize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/provider"
)

func TestWalkForward_WindowCountAndLayout(t *testing.T) {
	opt := testOptimizer()

	req := dto.WalkForwardRequest{
		BacktestRequest: testBacktestRequest(),
		TrainingWindow:  30,
		TestingWindow:   10,
		StepSize:        10,
	}
	req.StartDate = date(2024, time.January, 1)
	req.EndDate = req.StartDate.AddDate(0, 0, 100)

	results, err := opt.WalkForward(context.Background(), testStrategy(), req)
	require.NoError(t, err)

	// (100 - 30 - 10) / 10 + 1 rolling windows fit the range.
	require.Len(t, results, 7)

	for i, r := range results {
		require.NotNil(t, r.Period, "window %d missing period", i)
		assert.Empty(t, r.Error, "window %d failed: %s", i, r.Error)
		assert.NotEmpty(t, r.Parameters, "window %d carries no winning binding", i)

		wantStart := req.StartDate.AddDate(0, 0, 30+10*i)
		assert.Equal(t, wantStart, r.Period.StartDate, "window %d", i)
		assert.Equal(t, wantStart.AddDate(0, 0, 10), r.Period.EndDate, "window %d", i)
	}
}

func TestWalkForward_InvalidRange(t *testing.T) {
	opt := testOptimizer()

	req := dto.WalkForwardRequest{
		BacktestRequest: testBacktestRequest(),
		TrainingWindow:  30,
		TestingWindow:   10,
		StepSize:        10,
	}
	req.EndDate = req.StartDate

	_, err := opt.WalkForward(context.Background(), testStrategy(), req)

	assert.ErrorIs(t, err, provider.ErrInvalidRange)
}

func TestWalkForward_RangeTooShortForOneWindow(t *testing.T) {
	opt := testOptimizer()

	req := dto.WalkForwardRequest{
		BacktestRequest: testBacktestRequest(),
		TrainingWindow:  30,
		TestingWindow:   10,
		StepSize:        10,
	}
	req.EndDate = req.StartDate.AddDate(0, 0, 35)

	results, err := opt.WalkForward(context.Background(), testStrategy(), req)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestWalkForward_CancelledContextStopsEarly(t *testing.T) {
	opt := testOptimizer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := dto.WalkForwardRequest{
		BacktestRequest: testBacktestRequest(),
		TrainingWindow:  30,
		TestingWindow:   10,
		StepSize:        10,
	}
	req.EndDate = req.StartDate.AddDate(0, 0, 100)

	results, err := opt.WalkForward(ctx, testStrategy(), req)
	require.NoError(t, err)
	assert.Empty(t, results)
}
