package groups

import "github.com/formgate/formgate/internal/domain"

// NewRow builds an empty row with every configured column present.
func NewRow(cfg *Config) domain.Row {
	row := make(domain.Row, len(cfg.Columns))
	for _, col := range cfg.Columns {
		row[col.Key] = nil
	}
	return row
}

// SeedRows returns the starting row set for a field: predefined rows
// in predefined mode, otherwise MinRows blank rows.
func SeedRows(cfg *Config) []domain.Row {
	if cfg == nil {
		return nil
	}
	if cfg.Mode == ModePredefined {
		out := make([]domain.Row, len(cfg.Rows))
		for i, r := range cfg.Rows {
			out[i] = r.Clone()
		}
		return out
	}
	out := make([]domain.Row, 0, cfg.MinRows)
	for i := 0; i < cfg.MinRows; i++ {
		out = append(out, NewRow(cfg))
	}
	return out
}

// AddRow appends a blank row in user mode. At MaxRows, or in
// predefined mode, the call is a no-op rather than an error.
func AddRow(cfg *Config, rows []domain.Row) []domain.Row {
	if cfg == nil || cfg.Mode == ModePredefined {
		return rows
	}
	if cfg.MaxRows > 0 && len(rows) >= cfg.MaxRows {
		return rows
	}
	return append(rows, NewRow(cfg))
}

// RemoveRow deletes the row at index in user mode. At MinRows, in
// predefined mode, or with an out-of-range index it is a no-op.
func RemoveRow(cfg *Config, rows []domain.Row, index int) []domain.Row {
	if cfg == nil || cfg.Mode == ModePredefined {
		return rows
	}
	if index < 0 || index >= len(rows) {
		return rows
	}
	if len(rows) <= cfg.MinRows {
		return rows
	}
	out := make([]domain.Row, 0, len(rows)-1)
	out = append(out, rows[:index]...)
	out = append(out, rows[index+1:]...)
	return out
}

// SetCell writes one cell of one row, preserving row order and the
// identity of every other row. Out-of-range indexes are no-ops.
func SetCell(rows []domain.Row, index int, key string, value any) []domain.Row {
	if index < 0 || index >= len(rows) {
		return rows
	}
	out := make([]domain.Row, len(rows))
	copy(out, rows)
	updated := rows[index].Clone()
	updated[key] = value
	out[index] = updated
	return out
}

// Included reports whether a row is marked as selected, using the
// configured selector column (default "included").
func Included(cfg *Config, row domain.Row) bool {
	key := cfg.SelectorColumnKey
	if key == "" {
		key = "included"
	}
	return domain.Truthy(row[key])
}

// NoteColumns lists the column keys that must be non-blank on an
// included row: the explicit requireOnSelect keys plus any column
// flagged requiredWhenSelected.
func NoteColumns(cfg *Config) []string {
	seen := map[string]bool{}
	var keys []string
	for _, k := range cfg.RequireOnSelect {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, col := range cfg.Columns {
		if col.RequiredWhenSelected && !seen[col.Key] {
			seen[col.Key] = true
			keys = append(keys, col.Key)
		}
	}
	return keys
}
