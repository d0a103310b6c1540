package groups_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/formgate/internal/domain/groups"
)

func TestParse_FullLayout(t *testing.T) {
	raw := map[string]any{
		"mode":              "predefined",
		"selectorColumnKey": "included",
		"requireOnSelect":   []any{"note"},
		"rowLabel":          "Stakeholder",
		"columns": []any{
			map[string]any{"key": "name", "label": "Stakeholder", "type": "text"},
			map[string]any{"key": "included", "label": "Relevant", "type": "checkbox"},
			map[string]any{"key": "note", "label": "Why Relevant", "type": "text"},
		},
		"rows": []any{
			map[string]any{"name": "Patients", "included": false, "note": ""},
			map[string]any{"name": "Clinicians", "included": false, "note": ""},
		},
	}

	cfg := groups.Parse(raw)
	require.NotNil(t, cfg)
	assert.Equal(t, groups.ModePredefined, cfg.Mode)
	assert.Len(t, cfg.Columns, 3)
	assert.Len(t, cfg.Rows, 2)
	assert.Equal(t, "included", cfg.SelectorColumnKey)
	assert.Equal(t, []string{"note"}, cfg.RequireOnSelect)
}

func TestParse_ZeroColumnsIsNil(t *testing.T) {
	assert.Nil(t, groups.Parse(map[string]any{"mode": "user"}))
	assert.Nil(t, groups.Parse(map[string]any{"columns": []any{}}))
	assert.Nil(t, groups.Parse(nil))
	assert.Nil(t, groups.Parse("not json"))
	assert.Nil(t, groups.Parse(42))
}

func TestParse_MaxRowsClampedToMinRows(t *testing.T) {
	cfg := groups.Parse(map[string]any{
		"minRows": 3,
		"maxRows": 1,
		"columns": []any{map[string]any{"label": "Name"}},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, 3, cfg.MinRows)
	assert.Equal(t, 3, cfg.MaxRows, "maxRows clamps up to minRows")
}

func TestParse_KeyDerivedFromLabel(t *testing.T) {
	cfg := groups.Parse(map[string]any{
		"columns": []any{
			map[string]any{"label": "Competitor Name"},
			map[string]any{"label": "patientPopulation"},
			map[string]any{"label": "  Stage / Phase!  "},
		},
	})
	require.NotNil(t, cfg)
	require.Len(t, cfg.Columns, 3)
	assert.Equal(t, "competitor_name", cfg.Columns[0].Key)
	assert.Equal(t, "patient_population", cfg.Columns[1].Key)
	assert.Equal(t, "stage_phase", cfg.Columns[2].Key)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	labels := []string{"Why Relevant", "marketSize", "A  B--C", "IP Strength"}
	for _, label := range labels {
		assert.Equal(t, groups.DeriveKey(label), groups.DeriveKey(label), label)
	}
	assert.Equal(t, "why_relevant", groups.DeriveKey("Why Relevant"))
	assert.Equal(t, "a_b_c", groups.DeriveKey("A  B--C"))
}

func TestParse_JSONString(t *testing.T) {
	cfg := groups.Parse(`{"mode":"user","maxRows":4,"columns":[{"key":"name","label":"Name"}]}`)
	require.NotNil(t, cfg)
	assert.Equal(t, groups.ModeUser, cfg.Mode)
	assert.Equal(t, 4, cfg.MaxRows)
}

func TestParse_DefaultsModeToUser(t *testing.T) {
	cfg := groups.Parse(map[string]any{
		"mode":    "imaginary",
		"columns": []any{map[string]any{"label": "Name"}},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, groups.ModeUser, cfg.Mode)
}
