// Package groups normalizes repeatable-group layout configuration and
// owns the row-set operations a form session performs on it.
package groups

import (
	"encoding/json"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/formgate/formgate/internal/domain"
)

// Mode controls who owns the row list.
type Mode string

const (
	// ModeUser lets the reviewer add and remove rows within the
	// min/max bounds.
	ModeUser Mode = "user"
	// ModePredefined fixes the rows from configuration; the reviewer
	// only toggles inclusion and fills note columns.
	ModePredefined Mode = "predefined"
)

// Column describes one cell of every row.
type Column struct {
	Key                  string `json:"key"`
	Label                string `json:"label"`
	Type                 string `json:"type"`
	Required             bool   `json:"required,omitempty"`
	RequiredWhenSelected bool   `json:"requiredWhenSelected,omitempty"`
}

// Config is the canonical repeatable-group layout.
type Config struct {
	Columns           []Column     `json:"columns"`
	MinRows           int          `json:"minRows,omitempty"`
	MaxRows           int          `json:"maxRows,omitempty"`
	Mode              Mode         `json:"mode"`
	Rows              []domain.Row `json:"rows,omitempty"`
	RowLabel          string       `json:"rowLabel,omitempty"`
	SelectorColumnKey string       `json:"selectorColumnKey,omitempty"`
	RequireOnSelect   []string     `json:"requireOnSelect,omitempty"`
}

// Parse converts a loosely-typed group layout blob into canonical
// form: a decoded map, a JSON string, or an already-typed *Config. A
// layout with zero resolved columns is invalid and parses to nil, as
// does anything unparseable. Column keys missing from the blob are
// derived from the label. MaxRows, when present, is clamped to be at
// least MinRows. Parse never panics or errors.
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
		return parseMap(v)
	default:
		return nil
	}
}

func parseMap(m map[string]any) *Config {
	cfg := &Config{}

	if items, ok := domain.AsList(m["columns"]); ok {
		for _, item := range items {
			cm, ok := item.(map[string]any)
			if !ok {
				continue
			}
			col := parseColumn(cm)
			if col.Key == "" {
				continue
			}
			cfg.Columns = append(cfg.Columns, col)
		}
	}

	cfg.MinRows = intOrZero(m["minRows"])
	cfg.MaxRows = intOrZero(m["maxRows"])

	if mode, ok := m["mode"].(string); ok && Mode(mode) == ModePredefined {
		cfg.Mode = ModePredefined
	} else {
		cfg.Mode = ModeUser
	}

	if items, ok := domain.AsList(m["rows"]); ok {
		for _, item := range items {
			rm, ok := item.(map[string]any)
			if !ok {
				continue
			}
			cfg.Rows = append(cfg.Rows, domain.Row(rm).Clone())
		}
	}

	cfg.RowLabel, _ = m["rowLabel"].(string)
	cfg.SelectorColumnKey, _ = m["selectorColumnKey"].(string)

	if items, ok := domain.AsList(m["requireOnSelect"]); ok {
		for _, item := range items {
			if key, ok := item.(string); ok && key != "" {
				cfg.RequireOnSelect = append(cfg.RequireOnSelect, key)
			}
		}
	}

	return sanitize(cfg)
}

func parseColumn(m map[string]any) Column {
	col := Column{}
	col.Key, _ = m["key"].(string)
	col.Label, _ = m["label"].(string)
	col.Type, _ = m["type"].(string)
	col.Required, _ = m["required"].(bool)
	col.RequiredWhenSelected, _ = m["requiredWhenSelected"].(bool)

	if col.Type == "" {
		col.Type = "text"
	}
	if strings.TrimSpace(col.Key) == "" {
		col.Key = DeriveKey(col.Label)
	}
	return col
}

// DeriveKey produces a stable column key from a display label:
// camelCase words are split first, then everything is lower-cased and
// non-alphanumeric runs collapse to single underscores. Deterministic
// so two parses of the same label always agree.
func DeriveKey(label string) string {
	words := camelcase.Split(strings.TrimSpace(label))
	joined := strings.Join(words, " ")

	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore
	for _, r := range strings.ToLower(joined) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// sanitize enforces the zero-columns and min/max invariants.
func sanitize(cfg *Config) *Config {
	if cfg == nil || len(cfg.Columns) == 0 {
		return nil
	}
	if cfg.MinRows < 0 {
		cfg.MinRows = 0
	}
	if cfg.MaxRows != 0 && cfg.MaxRows < cfg.MinRows {
		cfg.MaxRows = cfg.MinRows
	}
	if cfg.Mode != ModePredefined {
		cfg.Mode = ModeUser
	}
	return cfg
}

func intOrZero(v any) int {
	f, ok := domain.ToFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}
