package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSma(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	got := Sma(values, 3)

	// Expanding window during warm-up, rolling afterwards.
	assert.InDelta(t, 1.0, got[0], 1e-9)
	assert.InDelta(t, 1.5, got[1], 1e-9)
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestSma_WarmupMatchesShorterPeriod(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14, 15}

	fast := Sma(values, 2)
	slow := Sma(values, 4)

	// While both windows are still expanding they average the same samples.
	assert.Equal(t, fast[0], slow[0])
	assert.Equal(t, fast[1], slow[1])
	// Once the fast window is full the averages diverge on a rising series.
	assert.Greater(t, fast[3], slow[3])
}

func TestRsi_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"rising", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"falling", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}},
		{"sawtooth", []float64{5, 6, 5, 7, 4, 8, 3, 9, 2, 10}},
		{"flat", []float64{5, 5, 5, 5, 5, 5, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range Rsi(tt.values, 4) {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		})
	}
}

func TestRsi_ZeroAverageLossClampsTo100(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	got := Rsi(values, 4)

	assert.Equal(t, 100.0, got[len(got)-1])
}

func TestRsi_ZeroAverageGainIsZero(t *testing.T) {
	values := []float64{8, 7, 6, 5, 4, 3, 2, 1}

	got := Rsi(values, 4)

	assert.Equal(t, 0.0, got[len(got)-1])
}

func TestRsi_ShortInputStaysNeutral(t *testing.T) {
	got := Rsi([]float64{1, 2, 3}, 14)

	for _, v := range got {
		assert.Equal(t, 50.0, v)
	}
}
