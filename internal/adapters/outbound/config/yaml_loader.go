// Package config loads form templates and draft files from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/condition"
	"github.com/formgate/formgate/internal/domain/groups"
	"github.com/formgate/formgate/internal/domain/validation"
)

// YAMLLoader implements domain.TemplateLoader for YAML template files.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads and validates a template file. Structural problems
// (unreadable file, invalid YAML, duplicate codes, unknown kinds)
// fail the load; malformed per-field configuration blobs only produce
// warnings, since the normalizers degrade them to defaults at session
// time.
func (l *YAMLLoader) Load(path string) (*domain.Template, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading template: %w", err)
	}

	var tmpl domain.Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := validateTemplate(&tmpl); err != nil {
		return nil, nil, fmt.Errorf("invalid template %s: %w", path, err)
	}

	normalizeBlobs(&tmpl)
	return &tmpl, collectWarnings(&tmpl), nil
}

// validateTemplate enforces the structural contract: at least one
// section, every field with a unique code and a recognized kind.
func validateTemplate(tmpl *domain.Template) error {
	if len(tmpl.Sections) == 0 {
		return fmt.Errorf("template has no sections")
	}
	seen := make(map[string]bool)
	for si, s := range tmpl.Sections {
		if len(s.Fields) == 0 {
			return fmt.Errorf("section %d (%s) has no fields", si, s.Title)
		}
		for _, f := range s.Fields {
			if f.Code == "" {
				return fmt.Errorf("section %d (%s) has a field without a code", si, s.Title)
			}
			if seen[f.Code] {
				return fmt.Errorf("duplicate field code %q", f.Code)
			}
			seen[f.Code] = true
			if !f.Kind.IsValid() {
				return fmt.Errorf("field %s has unknown kind %q", f.Code, f.Kind)
			}
		}
	}
	return nil
}

// normalizeBlobs converts yaml.v3's map[any]any shapes into the
// map[string]any form the normalizers consume.
func normalizeBlobs(tmpl *domain.Template) {
	for si := range tmpl.Sections {
		fields := tmpl.Sections[si].Fields
		for fi := range fields {
			fields[fi].Conditional = cleanValue(fields[fi].Conditional)
			fields[fi].Validation = cleanValue(fields[fi].Validation)
			fields[fi].GroupLayout = cleanValue(fields[fi].GroupLayout)
			fields[fi].InfoBox = cleanValue(fields[fi].InfoBox)
		}
	}
}

func cleanValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = cleanValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cleanValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cleanValue(item)
		}
		return out
	default:
		return v
	}
}

// collectWarnings reports every configuration blob the normalizers
// drop, so template authors hear about typos without the load failing.
func collectWarnings(tmpl *domain.Template) []string {
	var warnings []string
	for _, f := range tmpl.AllFields() {
		if f.Conditional != nil && condition.Parse(f.Conditional) == nil {
			warnings = append(warnings, fmt.Sprintf("field %s: conditional configuration dropped (unparseable or empty)", f.Code))
		}
		if f.Validation != nil && validation.ParseRules(f.Validation) == nil {
			warnings = append(warnings, fmt.Sprintf("field %s: validation rules dropped (unparseable or unknown types)", f.Code))
		}
		isGroupKind := f.Kind == domain.KindRepeatableGroup || f.Kind == domain.KindDataTableSelector
		if isGroupKind && groups.Parse(f.GroupLayout) == nil {
			warnings = append(warnings, fmt.Sprintf("field %s: group layout missing or has no columns; defaults apply", f.Code))
		}
	}
	return warnings
}
