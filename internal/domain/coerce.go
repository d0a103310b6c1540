package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ToFloat coerces a decoded YAML/JSON value to a float64.
// Strings are parsed; anything else fails.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FloatOrZero coerces with a default-zero fallback for missing or
// non-numeric input.
func FloatOrZero(v any) float64 {
	f, ok := ToFloat(v)
	if !ok {
		return 0
	}
	return f
}

// IsScalar reports whether v is nil or a plain scalar (string, bool,
// or number). Maps and lists are not scalars.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int64:
		return true
	default:
		return false
	}
}

// IsEmpty reports whether an answer counts as empty: nil, blank
// string, or zero-length list.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case []Row:
		return len(t) == 0
	default:
		return false
	}
}

// AsList normalizes list-shaped answers to []any. Returns nil, false
// for non-list values.
func AsList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// Stringify renders a scalar the way rule comparisons expect.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Truthy reports whether a row-cell value marks the row as selected:
// true booleans, non-zero numbers, and the usual affirmative strings.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1", "on":
			return true
		}
		return false
	default:
		if f, ok := ToFloat(v); ok {
			return f != 0
		}
		return false
	}
}
