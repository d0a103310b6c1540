package condition

import (
	"strings"

	"github.com/formgate/formgate/internal/domain"
)

// EvaluateRule decides whether a single rule passes against the
// current answer set. Unknown operators evaluate to false; callers
// may log them but never treat them as fatal.
func EvaluateRule(r Rule, answers domain.Answers) bool {
	answer := answers[r.Field]

	switch r.Operator {
	case OpEquals:
		return valuesEqual(answer, r.Value)
	case OpNotEquals:
		return !valuesEqual(answer, r.Value)
	case OpContains:
		return containsValue(answer, r.Value)
	case OpGreaterThan:
		return compareNumeric(answer, r.Value, func(a, b float64) bool { return a > b })
	case OpLessThan:
		return compareNumeric(answer, r.Value, func(a, b float64) bool { return a < b })
	case OpExists:
		return answerExists(answer)
	case OpNotExists:
		return !answerExists(answer)
	case OpNotEmpty:
		if list, ok := domain.AsList(answer); ok {
			return len(list) > 0
		}
		return answerExists(answer)
	default:
		return false
	}
}

// Evaluate combines every rule result per the config's combinator.
func Evaluate(cfg *Config, answers domain.Answers) bool {
	if cfg == nil || len(cfg.Rules) == 0 {
		return true
	}
	if cfg.Logic == LogicAnd {
		for _, r := range cfg.Rules {
			if !EvaluateRule(r, answers) {
				return false
			}
		}
		return true
	}
	for _, r := range cfg.Rules {
		if EvaluateRule(r, answers) {
			return true
		}
	}
	return false
}

// ShouldShow decides field visibility. A nil config is always
// visible. A pure show rule set shows on match; a pure hide rule set
// hides on match. A set mixing show and hide (or containing neither)
// falls back to the raw evaluated result.
func ShouldShow(cfg *Config, answers domain.Answers) bool {
	if cfg == nil {
		return true
	}

	hasShow, hasHide := false, false
	for _, r := range cfg.Rules {
		switch r.Action {
		case ActionShow:
			hasShow = true
		case ActionHide:
			hasHide = true
		}
	}

	result := Evaluate(cfg, answers)
	switch {
	case hasShow && !hasHide:
		return result
	case hasHide && !hasShow:
		return !result
	default:
		return result
	}
}

// ShouldRequire decides effective requiredness. A satisfied require
// rule set forces true; otherwise a satisfied optional rule set
// forces false; otherwise the base flag stands.
func ShouldRequire(cfg *Config, baseRequired bool, answers domain.Answers) bool {
	if cfg == nil {
		return baseRequired
	}

	if sub := subset(cfg, ActionRequire); sub != nil && Evaluate(sub, answers) {
		return true
	}
	if sub := subset(cfg, ActionOptional); sub != nil && Evaluate(sub, answers) {
		return false
	}
	return baseRequired
}

// subset extracts the rules carrying one action, keeping the parent
// combinator. Nil when no rule carries it.
func subset(cfg *Config, action Action) *Config {
	var rules []Rule
	for _, r := range cfg.Rules {
		if r.Action == action {
			rules = append(rules, r)
		}
	}
	if len(rules) == 0 {
		return nil
	}
	return &Config{Rules: rules, Logic: cfg.Logic}
}

// valuesEqual is strict equality with numeric widening, so a decoded
// int answer still equals a float rule value.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aok := asNumber(a)
	bf, bok := asNumber(b)
	if aok && bok {
		return af == bf
	}
	// Strict by contract: "3" only equals "3", never 3.
	if aok != bok {
		return false
	}
	// Rule values are scalars; a list/map answer never equals one, and
	// comparing non-comparable types with == would panic.
	if !domain.IsScalar(a) || !domain.IsScalar(b) {
		return false
	}
	return a == b
}

// containsValue: lists match when any element stringifies equal to
// the rule value; strings match on substring. A nil rule value never
// matches.
func containsValue(answer, ruleValue any) bool {
	if ruleValue == nil {
		return false
	}
	want := domain.Stringify(ruleValue)

	if list, ok := domain.AsList(answer); ok {
		for _, item := range list {
			if domain.Stringify(item) == want {
				return true
			}
		}
		return false
	}
	if s, ok := answer.(string); ok {
		return strings.Contains(s, want)
	}
	return false
}

// compareNumeric coerces both sides; either side failing coercion is
// the NaN case and compares false.
func compareNumeric(a, b any, cmp func(a, b float64) bool) bool {
	af, aok := domain.ToFloat(a)
	bf, bok := domain.ToFloat(b)
	if !aok || !bok {
		return false
	}
	return cmp(af, bf)
}

// asNumber widens numeric types without parsing strings, keeping
// equality strict across the string/number divide.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// answerExists: not nil and not an empty string. Zero and false both
// exist.
func answerExists(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
