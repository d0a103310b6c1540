package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/groups"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s]+$`)
)

// customValidators holds registered custom rule implementations keyed
// by the rule's value. An unregistered custom rule passes.
var customValidators = map[string]func(any) bool{}

// RegisterCustom installs a named custom validator. Intended for
// host applications wiring domain-specific checks; not safe for
// concurrent use with validation.
func RegisterCustom(name string, fn func(any) bool) {
	customValidators[name] = fn
}

// ValidateRule checks one rule against a candidate value. It returns
// the rule's message on rejection and "" on pass. Only the required
// rule fires on empty values: every other type passes empties, so
// optional fields validate format only once filled in.
func ValidateRule(r Rule, value any, kind domain.FieldKind) string {
	empty := domain.IsEmpty(value)

	if r.Type == RuleRequired {
		if empty {
			return message(r, "This field is required")
		}
		return ""
	}
	if empty {
		return ""
	}

	switch r.Type {
	case RuleMin:
		if !checkBound(value, r.Value, kind, false) {
			return message(r, "Value is below the minimum")
		}
	case RuleMax:
		if !checkBound(value, r.Value, kind, true) {
			return message(r, "Value exceeds the maximum")
		}
	case RulePattern:
		if !checkPattern(value, r.Value) {
			return message(r, "Value has an invalid format")
		}
	case RuleEmail:
		if s, ok := value.(string); !ok || !emailPattern.MatchString(s) {
			return message(r, "Enter a valid email address")
		}
	case RuleURL:
		if s, ok := value.(string); !ok || !urlPattern.MatchString(s) {
			return message(r, "Enter a valid URL")
		}
	case RuleNumber:
		f, ok := domain.ToFloat(value)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return message(r, "Enter a number")
		}
	case RuleCustom:
		name, _ := r.Value.(string)
		fn, ok := customValidators[name]
		if ok && !fn(value) {
			return message(r, "Value is not acceptable")
		}
	}
	return ""
}

// ValidateField runs a field's full ordered rule list and returns the
// first failure's message, or "" when every rule passes.
func ValidateField(field domain.FieldConfig, required bool, value any) string {
	for _, r := range RulesFor(field, required) {
		if msg := ValidateRule(r, value, field.Kind); msg != "" {
			return msg
		}
	}
	return ""
}

// ValidateForm produces the submission error map for the given
// fields. The engine is visibility-agnostic: callers pass only the
// currently relevant fields, with each field's effective requiredness
// in required. Data-table-selector fields additionally get the
// structural row check.
func ValidateForm(fields []domain.FieldConfig, answers domain.Answers, rows domain.Rows, required map[string]bool) map[string]string {
	errors := make(map[string]string)
	for _, f := range fields {
		req := required[f.Code]

		if f.Kind == domain.KindDataTableSelector || f.Kind == domain.KindRepeatableGroup {
			if msg := validateRowField(f, req, rows[f.Code]); msg != "" {
				errors[f.Code] = msg
			}
			continue
		}

		if msg := ValidateField(f, req, answers[f.Code]); msg != "" {
			errors[f.Code] = msg
		}
	}
	return errors
}

// validateRowField applies the generic rules to the row list value
// and, for data-table selectors, the structural post-check: every
// included row must fill its note columns, and a required field needs
// at least one included row.
func validateRowField(field domain.FieldConfig, required bool, rowList []domain.Row) string {
	cfg := groups.Parse(field.GroupLayout)

	if field.Kind == domain.KindRepeatableGroup {
		if required && len(rowList) == 0 {
			return field.Label + " needs at least one entry"
		}
		if cfg != nil && cfg.MinRows > 0 && len(rowList) > 0 && len(rowList) < cfg.MinRows {
			return field.Label + " needs more entries"
		}
		return ""
	}

	// Data-table selector.
	if cfg == nil {
		if required && len(rowList) == 0 {
			return field.Label + " is required"
		}
		return ""
	}

	included := 0
	noteKeys := groups.NoteColumns(cfg)
	for _, row := range rowList {
		if !groups.Included(cfg, row) {
			continue
		}
		included++
		for _, key := range noteKeys {
			cell, _ := row[key].(string)
			if strings.TrimSpace(cell) == "" {
				return field.Label + ": add a note for every selected row"
			}
		}
	}
	if required && included == 0 {
		return field.Label + ": select at least one row"
	}
	return ""
}

// checkBound applies min/max: numeric comparison for numeric kinds,
// length comparison for text-like and list kinds.
func checkBound(value, bound any, kind domain.FieldKind, isMax bool) bool {
	limit, ok := domain.ToFloat(bound)
	if !ok {
		return true // malformed bound never rejects
	}

	var measure float64
	if kind.Numeric() {
		f, ok := domain.ToFloat(value)
		if !ok {
			return true // the number rule reports this, not min/max
		}
		measure = f
	} else if list, ok := domain.AsList(value); ok {
		measure = float64(len(list))
	} else if s, ok := value.(string); ok {
		measure = float64(len([]rune(s)))
	} else {
		return true
	}

	if isMax {
		return measure <= limit
	}
	return measure >= limit
}

// checkPattern applies a configured regular expression to string
// values. A malformed pattern never matches anything, so it passes
// rather than crashing the engine.
func checkPattern(value, pattern any) bool {
	p, ok := pattern.(string)
	if !ok || p == "" {
		return true
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return true
	}
	s, ok := value.(string)
	if !ok {
		return true
	}
	return re.MatchString(s)
}

func message(r Rule, fallback string) string {
	if strings.TrimSpace(r.Message) != "" {
		return r.Message
	}
	return fallback
}
