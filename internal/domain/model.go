package domain

import "time"

// FieldKind identifies the widget/value contract of a question.
type FieldKind string

const (
	KindShortText         FieldKind = "short_text"
	KindLongText          FieldKind = "long_text"
	KindInteger           FieldKind = "integer"
	KindSingleSelect      FieldKind = "single_select"
	KindMultiSelect       FieldKind = "multi_select"
	KindCheckboxGroup     FieldKind = "checkbox_group"
	KindDate              FieldKind = "date"
	KindRepeatableGroup   FieldKind = "repeatable_group"
	KindDataTableSelector FieldKind = "data_table_selector"
	KindScore             FieldKind = "score"
	KindScoringMatrix     FieldKind = "scoring_matrix"
)

// ValidFieldKinds enumerates every recognized field kind.
var ValidFieldKinds = []FieldKind{
	KindShortText, KindLongText, KindInteger,
	KindSingleSelect, KindMultiSelect, KindCheckboxGroup,
	KindDate, KindRepeatableGroup, KindDataTableSelector,
	KindScore, KindScoringMatrix,
}

// IsValid reports whether k is one of the recognized field kinds.
func (k FieldKind) IsValid() bool {
	for _, v := range ValidFieldKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Numeric reports whether values of this kind are numbers.
func (k FieldKind) Numeric() bool {
	return k == KindInteger || k == KindScore
}

// TextLike reports whether min/max rules apply to the value's length
// rather than its magnitude.
func (k FieldKind) TextLike() bool {
	switch k {
	case KindShortText, KindLongText, KindDate:
		return true
	case KindMultiSelect, KindCheckboxGroup:
		return true
	default:
		return false
	}
}

// ListValued reports whether the answer for this kind is a list.
func (k FieldKind) ListValued() bool {
	switch k {
	case KindMultiSelect, KindCheckboxGroup, KindRepeatableGroup, KindDataTableSelector:
		return true
	default:
		return false
	}
}

// Option is one selectable choice for select/checkbox kinds.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// FieldConfig is the declarative configuration of a single question.
// The three blob fields arrive loosely typed (maps, lists, or JSON
// strings) and are normalized once per session by the condition,
// validation and groups packages. Immutable after load.
type FieldConfig struct {
	Code     string    `yaml:"code"     json:"code"`
	Label    string    `yaml:"label"    json:"label"`
	Kind     FieldKind `yaml:"kind"     json:"kind"`
	Required bool      `yaml:"required" json:"required"`
	Options  []Option  `yaml:"options,omitempty" json:"options,omitempty"`

	Validation  any `yaml:"validation,omitempty"  json:"validation,omitempty"`
	Conditional any `yaml:"conditional,omitempty" json:"conditional,omitempty"`
	GroupLayout any `yaml:"group,omitempty"       json:"group,omitempty"`
	InfoBox     any `yaml:"info,omitempty"        json:"info,omitempty"`
}

// OptionLabel resolves a stored option value to its display label.
// Falls back to the raw value when no option matches.
func (f FieldConfig) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Section is an ordered group of fields shown as one page.
type Section struct {
	ID          string        `yaml:"id"          json:"id"`
	Title       string        `yaml:"title"       json:"title"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []FieldConfig `yaml:"fields"      json:"fields"`
}

// Template is a complete form definition: ordered sections of ordered
// fields, authored externally and immutable during a session.
type Template struct {
	ID       string    `yaml:"id"       json:"id"`
	Title    string    `yaml:"title"    json:"title"`
	Version  string    `yaml:"version,omitempty" json:"version,omitempty"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// FieldByCode finds a field configuration anywhere in the template.
func (t *Template) FieldByCode(code string) (FieldConfig, bool) {
	for _, s := range t.Sections {
		for _, f := range s.Fields {
			if f.Code == code {
				return f, true
			}
		}
	}
	return FieldConfig{}, false
}

// AllFields returns every field in section order.
func (t *Template) AllFields() []FieldConfig {
	var out []FieldConfig
	for _, s := range t.Sections {
		out = append(out, s.Fields...)
	}
	return out
}

// Answers maps field codes to their current raw values: scalars for
// text/select kinds, []any for multi-select kinds.
type Answers map[string]any

// Clone returns a shallow copy (values are treated as immutable).
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Row is one record inside a repeatable group. Keys are column keys.
type Row map[string]any

// Clone copies the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Rows maps repeatable-group field codes to their ordered row lists.
// Row order is identity within a save and survives load/edit/save.
type Rows map[string][]Row

// Clone deep-copies the row sets.
func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	for code, list := range r {
		copied := make([]Row, len(list))
		for i, row := range list {
			copied[i] = row.Clone()
		}
		out[code] = copied
	}
	return out
}

// Draft is a saved-in-progress response set.
type Draft struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	Answers    Answers   `json:"answers"`
	Rows       Rows      `json:"rows,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DraftSummary is the listing view of a stored draft.
type DraftSummary struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Submission is the outbound payload handed to persistence/export
// collaborators: raw answers and rows plus the derived scores and,
// where available, friendly labels for coded values.
type Submission struct {
	TemplateID       string            `json:"template_id"`
	TemplateRevision string            `json:"template_revision,omitempty"`
	SubmittedAt      time.Time         `json:"submitted_at"`
	Answers          Answers           `json:"answers"`
	Rows             Rows              `json:"rows,omitempty"`
	Scores           map[string]any    `json:"scores"`
	Labels           map[string]string `json:"labels,omitempty"`
}
