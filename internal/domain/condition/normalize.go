// Package condition normalizes and evaluates the declarative
// visibility/requiredness rules a field configuration may carry.
//
// Two serialized shapes exist in the wild: a legacy `showIf` rule
// list (implicitly action=show, combinator=OR) and the canonical
// `{rules, logic}` shape. Parse absorbs both into one canonical
// representation; everything downstream branches only on that.
package condition

import (
	"encoding/json"
	"strings"

	"github.com/formgate/formgate/internal/domain"
)

// Operator is the closed comparison set a rule may use.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "not_exists"
	OpNotEmpty    Operator = "not_empty"
)

var validOperators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true, OpContains: true,
	OpGreaterThan: true, OpLessThan: true,
	OpExists: true, OpNotExists: true, OpNotEmpty: true,
}

// Action is what a satisfied rule set does to its field.
type Action string

const (
	ActionShow     Action = "show"
	ActionHide     Action = "hide"
	ActionRequire  Action = "require"
	ActionOptional Action = "optional"
)

var validActions = map[Action]bool{
	ActionShow: true, ActionHide: true, ActionRequire: true, ActionOptional: true,
}

// Logic combines the rule results of a config.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Rule is one normalized condition: compare the answer of Field to
// Value using Operator, contributing to the config's Action.
type Rule struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
	Action   Action   `json:"action"`
}

// Config is the canonical conditional configuration: an ordered rule
// list plus the combinator applied across them.
type Config struct {
	Rules []Rule `json:"rules"`
	Logic Logic  `json:"logic"`
}

// Parse converts a loosely-typed conditional blob into its canonical
// form. Accepted inputs: an already-canonical *Config, a decoded map
// in either the canonical or the legacy `showIf` shape, or a JSON
// string of either shape. Rules with unrecognized operators/actions
// or non-scalar values are dropped silently; a config whose rule list
// ends up empty is semantically empty and parses to nil. Parse never
// panics and never returns an error: all failures degrade to nil,
// which callers treat as "no condition".
func Parse(raw any) *Config {
	switch v := raw.(type) {
	case nil:
		return nil
	case *Config:
		return sanitize(v)
	case Config:
		return sanitize(&v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil
		}
		return Parse(m)
	case map[string]any:
		if legacy, ok := v["showIf"]; ok {
			return parseLegacy(legacy)
		}
		return parseCanonical(v)
	default:
		return nil
	}
}

// parseLegacy maps a `showIf: [{field, operator, value}]` list onto
// the canonical shape: every rule becomes action=show, combined with OR.
func parseLegacy(raw any) *Config {
	items, ok := domain.AsList(raw)
	if !ok {
		return nil
	}
	cfg := &Config{Logic: LogicOr}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r, ok := parseRule(m, ActionShow)
		if !ok {
			continue
		}
		cfg.Rules = append(cfg.Rules, r)
	}
	return sanitize(cfg)
}

func parseCanonical(m map[string]any) *Config {
	items, ok := domain.AsList(m["rules"])
	if !ok {
		return nil
	}
	cfg := &Config{Logic: parseLogic(m["logic"])}
	for _, item := range items {
		rm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r, ok := parseRule(rm, ActionShow)
		if !ok {
			continue
		}
		cfg.Rules = append(cfg.Rules, r)
	}
	return sanitize(cfg)
}

// parseRule validates one raw rule. Unknown operators or actions and
// non-scalar values reject the rule rather than crashing the parse.
func parseRule(m map[string]any, defaultAction Action) (Rule, bool) {
	field, _ := m["field"].(string)
	if strings.TrimSpace(field) == "" {
		return Rule{}, false
	}

	opStr, _ := m["operator"].(string)
	op := Operator(strings.TrimSpace(opStr))
	if !validOperators[op] {
		return Rule{}, false
	}

	value := m["value"]
	if !domain.IsScalar(value) {
		return Rule{}, false
	}

	action := defaultAction
	if a, ok := m["action"].(string); ok && strings.TrimSpace(a) != "" {
		action = Action(strings.TrimSpace(a))
		if !validActions[action] {
			return Rule{}, false
		}
	}

	return Rule{Field: field, Operator: op, Value: value, Action: action}, true
}

func parseLogic(raw any) Logic {
	s, _ := raw.(string)
	if strings.EqualFold(strings.TrimSpace(s), string(LogicAnd)) {
		return LogicAnd
	}
	return LogicOr
}

// sanitize enforces the empty-config invariant and defaults the
// combinator.
func sanitize(cfg *Config) *Config {
	if cfg == nil || len(cfg.Rules) == 0 {
		return nil
	}
	if cfg.Logic != LogicAnd && cfg.Logic != LogicOr {
		cfg.Logic = LogicOr
	}
	kept := cfg.Rules[:0]
	for _, r := range cfg.Rules {
		if !validOperators[r.Operator] || !validActions[r.Action] || !domain.IsScalar(r.Value) {
			continue
		}
		kept = append(kept, r)
	}
	cfg.Rules = kept
	if len(cfg.Rules) == 0 {
		return nil
	}
	return cfg
}
