package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/formgate/formgate/internal/domain"
)

// draftFile is the on-disk shape of an answers/rows document used by
// the CLI (`--answers`, `--draft` flags).
type draftFile struct {
	TemplateID string                      `yaml:"template_id,omitempty"`
	Answers    map[string]any              `yaml:"answers"`
	Rows       map[string][]map[string]any `yaml:"rows,omitempty"`
}

// LoadDraftFile reads an answer set (and optional row sets) from a
// YAML file.
func LoadDraftFile(path string) (domain.Answers, domain.Rows, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading draft file: %w", err)
	}

	var doc draftFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	answers := make(domain.Answers, len(doc.Answers))
	for k, v := range doc.Answers {
		answers[k] = cleanValue(v)
	}

	rows := make(domain.Rows, len(doc.Rows))
	for code, list := range doc.Rows {
		converted := make([]domain.Row, len(list))
		for i, m := range list {
			row := make(domain.Row, len(m))
			for k, v := range m {
				row[k] = cleanValue(v)
			}
			converted[i] = row
		}
		rows[code] = converted
	}

	return answers, rows, nil
}
