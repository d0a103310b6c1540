package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/condition"
)

func TestParse_CanonicalShape(t *testing.T) {
	raw := map[string]any{
		"rules": []any{
			map[string]any{"field": "F0.7", "operator": "equals", "value": "diagnostic", "action": "show"},
			map[string]any{"field": "F0.8", "operator": "exists", "action": "require"},
		},
		"logic": "AND",
	}

	cfg := condition.Parse(raw)
	require.NotNil(t, cfg)
	assert.Equal(t, condition.LogicAnd, cfg.Logic)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, condition.OpEquals, cfg.Rules[0].Operator)
	assert.Equal(t, condition.ActionShow, cfg.Rules[0].Action)
	assert.Equal(t, condition.ActionRequire, cfg.Rules[1].Action)
}

func TestParse_LegacyShowIf(t *testing.T) {
	raw := map[string]any{
		"showIf": []any{
			map[string]any{"field": "F0.7", "operator": "equals", "value": "diagnostic"},
		},
	}

	cfg := condition.Parse(raw)
	require.NotNil(t, cfg)
	assert.Equal(t, condition.LogicOr, cfg.Logic, "legacy shape implies OR")
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, condition.ActionShow, cfg.Rules[0].Action, "legacy rules imply action=show")
}

func TestParse_LegacyAndCanonicalAgree(t *testing.T) {
	legacy := condition.Parse(map[string]any{
		"showIf": []any{
			map[string]any{"field": "F0.7", "operator": "equals", "value": "diagnostic"},
		},
	})
	canonical := condition.Parse(map[string]any{
		"rules": []any{
			map[string]any{"field": "F0.7", "operator": "equals", "value": "diagnostic", "action": "show"},
		},
		"logic": "OR",
	})
	require.NotNil(t, legacy)
	require.NotNil(t, canonical)

	answerSets := []domain.Answers{
		{},
		{"F0.7": "diagnostic"},
		{"F0.7": "therapeutic"},
		{"F0.7": nil},
		{"F0.7": 3},
		{"other": "diagnostic"},
	}
	for _, answers := range answerSets {
		assert.Equal(t,
			condition.ShouldShow(legacy, answers),
			condition.ShouldShow(canonical, answers),
			"answers=%v", answers)
	}
}

func TestParse_JSONString(t *testing.T) {
	cfg := condition.Parse(`{"rules":[{"field":"F1","operator":"exists","action":"show"}],"logic":"AND"}`)
	require.NotNil(t, cfg)
	assert.Equal(t, condition.LogicAnd, cfg.Logic)
	require.Len(t, cfg.Rules, 1)
}

func TestParse_DropsInvalidRules(t *testing.T) {
	raw := map[string]any{
		"rules": []any{
			map[string]any{"field": "F1", "operator": "equals", "value": "x", "action": "show"},
			map[string]any{"field": "F2", "operator": "resembles", "value": "x"},               // unknown operator
			map[string]any{"field": "F3", "operator": "equals", "value": "x", "action": "explode"}, // unknown action
			map[string]any{"field": "F4", "operator": "equals", "value": map[string]any{"no": 1}},  // non-scalar value
			map[string]any{"operator": "equals", "value": "x"},                                     // missing field
		},
		"logic": "OR",
	}

	cfg := condition.Parse(raw)
	require.NotNil(t, cfg)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "F1", cfg.Rules[0].Field)
}

func TestParse_EmptyResultIsNil(t *testing.T) {
	cases := map[string]any{
		"nil":              nil,
		"empty map":        map[string]any{},
		"empty rules":      map[string]any{"rules": []any{}, "logic": "AND"},
		"all invalid":      map[string]any{"rules": []any{map[string]any{"operator": "bogus"}}},
		"empty string":     "",
		"malformed json":   "{rules: [",
		"scalar input":     42,
		"legacy non-list":  map[string]any{"showIf": "nope"},
		"rules non-list":   map[string]any{"rules": "nope"},
	}
	for name, raw := range cases {
		assert.Nil(t, condition.Parse(raw), name)
	}
}

func TestParse_DefaultsLogicToOr(t *testing.T) {
	cfg := condition.Parse(map[string]any{
		"rules": []any{
			map[string]any{"field": "F1", "operator": "exists"},
		},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, condition.LogicOr, cfg.Logic)
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []any{
		nil, 0, 3.14, true, "random text", []any{1, 2}, map[string]any{"showIf": []any{"x", 1}},
		map[string]any{"rules": []any{nil}},
	}
	for _, raw := range inputs {
		assert.NotPanics(t, func() { condition.Parse(raw) })
	}
}
