// Package validation decides field-level acceptability of candidate
// values and produces the per-field error map used to gate submission.
package validation

import (
	"encoding/json"
	"strings"

	"github.com/formgate/formgate/internal/domain"
)

// RuleType is the closed set of validation rule kinds.
type RuleType string

const (
	RuleRequired RuleType = "required"
	RuleMin      RuleType = "min"
	RuleMax      RuleType = "max"
	RulePattern  RuleType = "pattern"
	RuleCustom   RuleType = "custom"
	RuleEmail    RuleType = "email"
	RuleURL      RuleType = "url"
	RuleNumber   RuleType = "number"
)

var validRuleTypes = map[RuleType]bool{
	RuleRequired: true, RuleMin: true, RuleMax: true, RulePattern: true,
	RuleCustom: true, RuleEmail: true, RuleURL: true, RuleNumber: true,
}

// Rule is one validation constraint. Evaluation across a field's rule
// list is first-failure-wins: the first rejecting rule supplies the
// message.
type Rule struct {
	Type    RuleType `json:"type"`
	Value   any      `json:"value,omitempty"`
	Message string   `json:"message"`
}

// ParseRules normalizes a loosely-typed validation blob into an
// ordered rule list: a decoded list of rule maps, a JSON string of
// one, or already-typed []Rule. Rules with unknown types are dropped
// silently; unparseable input degrades to nil. Never panics.
func ParseRules(raw any) []Rule {
	switch v := raw.(type) {
	case nil:
		return nil
	case []Rule:
		return sanitizeRules(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		var items []map[string]any
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return nil
		}
		generic := make([]any, len(items))
		for i, m := range items {
			generic[i] = map[string]any(m)
		}
		return parseList(generic)
	default:
		if items, ok := domain.AsList(raw); ok {
			return parseList(items)
		}
		return nil
	}
}

func parseList(items []any) []Rule {
	var rules []Rule
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typStr, _ := m["type"].(string)
		typ := RuleType(strings.TrimSpace(typStr))
		if !validRuleTypes[typ] {
			continue
		}
		msg, _ := m["message"].(string)
		rules = append(rules, Rule{Type: typ, Value: m["value"], Message: msg})
	}
	return rules
}

func sanitizeRules(rules []Rule) []Rule {
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if validRuleTypes[r.Type] {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// BuiltinRules layers the per-kind baseline constraints ahead of any
// custom rules: requiredness first (base or conditionally forced),
// then numeric coercion for numeric kinds, then the 0-3 range for the
// bounded score kind.
func BuiltinRules(field domain.FieldConfig, required bool) []Rule {
	var rules []Rule
	if required {
		rules = append(rules, Rule{
			Type:    RuleRequired,
			Message: field.Label + " is required",
		})
	}
	if field.Kind.Numeric() {
		rules = append(rules, Rule{
			Type:    RuleNumber,
			Message: field.Label + " must be a number",
		})
	}
	if field.Kind == domain.KindScore {
		rules = append(rules,
			Rule{Type: RuleMin, Value: 0, Message: field.Label + " must be between 0 and 3"},
			Rule{Type: RuleMax, Value: 3, Message: field.Label + " must be between 0 and 3"},
		)
	}
	return rules
}

// RulesFor assembles the full ordered rule list for a field: builtin
// baselines followed by the field's own configured rules.
func RulesFor(field domain.FieldConfig, required bool) []Rule {
	return append(BuiltinRules(field, required), ParseRules(field.Validation)...)
}
