package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
)

func TestStrategyRegistry_Builtins(t *testing.T) {
	r := NewStrategyRegistry()

	for _, id := range []string{"momentum-cross", "rsi-reversion", "ema-trend"} {
		s, err := r.Get(id)
		require.NoError(t, err, "builtin %s missing", id)
		assert.NoError(t, engine.ValidateStrategy(s, nil), "builtin %s invalid", id)
	}

	assert.Len(t, r.List(), 3)
}

func TestStrategyRegistry_GetUnknown(t *testing.T) {
	r := NewStrategyRegistry()

	_, err := r.Get("no-such-strategy")

	assert.ErrorIs(t, err, engine.ErrInvalidStrategy)
}

func TestStrategyRegistry_Register(t *testing.T) {
	r := NewStrategyRegistry()

	custom := &model.StrategyDefinition{
		ID:       "custom-momentum",
		Name:     "Custom Momentum",
		Category: model.CategoryMomentum,
		Parameters: []model.ParameterDefinition{
			{Name: engine.ParamFastPeriod, Type: model.ParameterTypeInt, Default: 5},
			{Name: engine.ParamSlowPeriod, Type: model.ParameterTypeInt, Default: 50},
		},
	}

	require.NoError(t, r.Register(custom))

	got, err := r.Get("custom-momentum")
	require.NoError(t, err)
	assert.Equal(t, custom, got)
	assert.Len(t, r.List(), 4)
}

func TestStrategyRegistry_RegisterInvalid(t *testing.T) {
	r := NewStrategyRegistry()

	tests := []struct {
		name     string
		strategy *model.StrategyDefinition
	}{
		{
			name: "fast above slow",
			strategy: &model.StrategyDefinition{
				ID:       "broken",
				Category: model.CategoryMomentum,
				Parameters: []model.ParameterDefinition{
					{Name: engine.ParamFastPeriod, Type: model.ParameterTypeInt, Default: 50},
					{Name: engine.ParamSlowPeriod, Type: model.ParameterTypeInt, Default: 5},
				},
			},
		},
		{
			name: "missing id",
			strategy: &model.StrategyDefinition{
				Category: model.CategoryMomentum,
				Parameters: []model.ParameterDefinition{
					{Name: engine.ParamFastPeriod, Type: model.ParameterTypeInt, Default: 5},
					{Name: engine.ParamSlowPeriod, Type: model.ParameterTypeInt, Default: 50},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.strategy)
			assert.ErrorIs(t, err, engine.ErrInvalidStrategy)
		})
	}

	assert.Len(t, r.List(), 3, "failed registrations must not be stored")
}
