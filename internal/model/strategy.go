package model

// StrategyCategory classifies the signal family a strategy belongs to.
type StrategyCategory string

const (
	CategoryMomentum       StrategyCategory = "momentum"
	CategoryMeanReversion  StrategyCategory = "mean_reversion"
	CategoryTrendFollowing StrategyCategory = "trend_following"
)

// ParameterType describes the value type of a strategy parameter.
type ParameterType string

const (
	ParameterTypeInt   ParameterType = "int"
	ParameterTypeFloat ParameterType = "float"
)

// ParameterDefinition declares one tunable parameter of a strategy,
// optionally bounded for optimization.
type ParameterDefinition struct {
	Name    string        `json:"name"`
	Type    ParameterType `json:"type"`
	Default float64       `json:"default"`
	Min     *float64      `json:"min,omitempty"`
	Max     *float64      `json:"max,omitempty"`
}

// IndicatorDefinition names an indicator the strategy relies on.
type IndicatorDefinition struct {
	Name   string             `json:"name"`
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params,omitempty"`
}

// RiskRuleKind enumerates the supported risk rules.
type RiskRuleKind string

const (
	RiskRuleStopLoss    RiskRuleKind = "stop_loss"
	RiskRuleTakeProfit  RiskRuleKind = "take_profit"
	RiskRuleMaxDrawdown RiskRuleKind = "max_drawdown"
)

// RiskRule attaches a protective rule to every entry the strategy takes.
// Value is a fraction of the entry price (e.g. 0.05 for a 5% stop).
type RiskRule struct {
	Kind   RiskRuleKind `json:"kind"`
	Value  float64      `json:"value"`
	Action string       `json:"action"`
}

// StrategyDefinition is an immutable strategy template. A ParameterBinding is
// derived per run and never mutates the template.
type StrategyDefinition struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Category   StrategyCategory      `json:"category"`
	Parameters []ParameterDefinition `json:"parameters"`
	Indicators []IndicatorDefinition `json:"indicators"`
	RiskRules  []RiskRule            `json:"risk_rules"`
}

// ParameterBinding maps parameter names to concrete values for one run.
type ParameterBinding map[string]float64

// DefaultBinding builds a binding from the declared parameter defaults.
func (s *StrategyDefinition) DefaultBinding() ParameterBinding {
	binding := make(ParameterBinding, len(s.Parameters))
	for _, p := range s.Parameters {
		binding[p.Name] = p.Default
	}
	return binding
}

// Resolve returns the bound value for name, falling back to the declared
// default when the binding does not carry it.
func (s *StrategyDefinition) Resolve(binding ParameterBinding, name string) float64 {
	if binding != nil {
		if v, ok := binding[name]; ok {
			return v
		}
	}
	for _, p := range s.Parameters {
		if p.Name == name {
			return p.Default
		}
	}
	return 0
}
