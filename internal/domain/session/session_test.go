package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/session"
)

func testTemplate() *domain.Template {
	return &domain.Template{
		ID:    "tech-eval",
		Title: "Technology Evaluation",
		Sections: []domain.Section{
			{
				ID:    "s0",
				Title: "Overview",
				Fields: []domain.FieldConfig{
					{Code: "F0.1", Label: "Title", Kind: domain.KindShortText, Required: true},
					{Code: "F0.7", Label: "Category", Kind: domain.KindSingleSelect, Options: []domain.Option{
						{Value: "therapeutic", Label: "Therapeutic"},
						{Value: "diagnostic", Label: "Diagnostic"},
					}},
					{Code: "F0.8", Label: "Diagnostic Detail", Kind: domain.KindShortText, Conditional: map[string]any{
						"showIf": []any{
							map[string]any{"field": "F0.7", "operator": "equals", "value": "diagnostic"},
						},
					}},
				},
			},
			{
				ID:    "s2",
				Title: "Impact",
				Fields: []domain.FieldConfig{
					{Code: "F2.1.score", Label: "Mission Alignment", Kind: domain.KindScore},
					{Code: "F2.2.score", Label: "Unmet Need", Kind: domain.KindScore},
					{Code: "F3.3", Label: "Has IP", Kind: domain.KindSingleSelect, Options: []domain.Option{
						{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"},
					}},
					{Code: "F3.4", Label: "IP Detail", Kind: domain.KindLongText, Conditional: map[string]any{
						"rules": []any{
							map[string]any{"field": "F3.3", "operator": "equals", "value": "yes", "action": "show"},
							map[string]any{"field": "F3.3", "operator": "equals", "value": "yes", "action": "require"},
						},
						"logic": "AND",
					}},
				},
			},
			{
				ID:    "s4",
				Title: "Market",
				Fields: []domain.FieldConfig{
					{Code: "F4.7", Label: "Competitors", Kind: domain.KindRepeatableGroup, GroupLayout: map[string]any{
						"mode":    "user",
						"minRows": 1,
						"maxRows": 3,
						"columns": []any{map[string]any{"key": "name", "label": "Name"}},
					}},
				},
			},
		},
	}
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(testTemplate(), session.WithDebounce(10*time.Millisecond))
	t.Cleanup(s.Close)
	return s
}

func TestSetAnswer_TouchesOnlyItsKey(t *testing.T) {
	s := newSession(t)
	s.SetAnswer("F0.1", "CRISPR delivery platform")
	s.SetAnswer("F0.7", "diagnostic")

	st := s.Snapshot()
	assert.Equal(t, "CRISPR delivery platform", st.Answers["F0.1"])
	assert.Equal(t, "diagnostic", st.Answers["F0.7"])
	assert.True(t, st.Dirty)
}

func TestHydrate_ReplacesWholesale(t *testing.T) {
	s := newSession(t)
	s.SetAnswer("F0.1", "typed before the draft arrived")
	s.SetAnswer("F0.7", "therapeutic")

	s.Hydrate(domain.Answers{"F2.1.score": 3}, nil)

	st := s.Snapshot()
	assert.NotContains(t, st.Answers, "F0.1", "keys absent from the snapshot are removed")
	assert.NotContains(t, st.Answers, "F0.7")
	assert.Equal(t, 3, st.Answers["F2.1.score"])
	assert.False(t, st.Dirty)
}

func TestHydrate_SamePayloadAppliedOnce(t *testing.T) {
	s := newSession(t)
	draft := domain.Answers{"F0.1": "from draft"}

	s.Hydrate(draft, nil)
	s.SetAnswer("F0.1", "edited after hydration")

	// A stale re-delivery of the same draft must not clobber the edit.
	s.Hydrate(draft, nil)
	assert.Equal(t, "edited after hydration", s.Snapshot().Answers["F0.1"])

	// A different draft does apply.
	s.Hydrate(domain.Answers{"F0.1": "second draft"}, nil)
	assert.Equal(t, "second draft", s.Snapshot().Answers["F0.1"])
}

func TestSectionCursor_Clamped(t *testing.T) {
	s := newSession(t)
	require.Equal(t, 3, s.SectionCount())

	s.PreviousSection()
	assert.Equal(t, 0, s.Snapshot().CurrentSection)

	s.NextSection()
	s.NextSection()
	s.NextSection()
	s.NextSection()
	assert.Equal(t, 2, s.Snapshot().CurrentSection)

	s.Dispatch(session.Action{Type: session.ActionSetCurrentSection, Section: 99})
	assert.Equal(t, 2, s.Snapshot().CurrentSection)
	s.Dispatch(session.Action{Type: session.ActionSetCurrentSection, Section: -5})
	assert.Equal(t, 0, s.Snapshot().CurrentSection)
}

func TestConditionalVisibilityAndRequiredness(t *testing.T) {
	s := newSession(t)

	assert.True(t, s.FieldVisible("F0.1"), "unconditional fields are always visible")
	assert.False(t, s.FieldVisible("F0.8"))
	s.SetAnswer("F0.7", "diagnostic")
	assert.True(t, s.FieldVisible("F0.8"))

	assert.False(t, s.FieldVisible("F3.4"))
	assert.False(t, s.FieldRequired("F3.4"))
	s.SetAnswer("F3.3", "yes")
	assert.True(t, s.FieldVisible("F3.4"))
	assert.True(t, s.FieldRequired("F3.4"), "require rule overrides a false base flag")
}

func TestValidateField_HiddenFieldsExempt(t *testing.T) {
	s := newSession(t)

	s.SetAnswer("F3.3", "yes")
	require.NotEmpty(t, s.ValidateField("F3.4"), "visible and conditionally required")

	s.SetAnswer("F3.3", "no")
	assert.Empty(t, s.ValidateField("F3.4"), "hidden again, so exempt")
	assert.NotContains(t, s.Snapshot().Errors, "F3.4")
}

func TestSetAnswer_ClearsOnlyOwnError(t *testing.T) {
	s := newSession(t)
	s.ValidateAll()
	st := s.Snapshot()
	require.Contains(t, st.Errors, "F0.1")

	s.SetAnswer("F2.1.score", 2)
	// Editing the score field must not clear F0.1's error.
	assert.Contains(t, s.Snapshot().Errors, "F0.1")
	assert.NotContains(t, s.Snapshot().Errors, "F2.1.score")
}

func TestDebouncedValidation_LastEditWins(t *testing.T) {
	s := newSession(t)

	s.SetAnswer("F2.1.score", 9)
	s.SetAnswer("F2.1.score", 2)

	// The rescheduled task validates the final value, which is in range.
	time.Sleep(50 * time.Millisecond)
	assert.NotContains(t, s.Snapshot().Errors, "F2.1.score")

	s.SetAnswer("F2.1.score", 9)
	require.Eventually(t, func() bool {
		_, ok := s.Snapshot().Errors["F2.1.score"]
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestDerivedScores_TrackAnswers(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, 0.0, s.Snapshot().Derived.ImpactScore)

	s.SetAnswer("F2.1.score", 3)
	s.SetAnswer("F2.2.score", 3)
	assert.Equal(t, 3.0, s.Snapshot().Derived.ImpactScore)
}

func TestRows_SeededAndBounded(t *testing.T) {
	s := newSession(t)

	st := s.Snapshot()
	require.Len(t, st.Rows["F4.7"], 1, "minRows seeds one blank row")

	s.AddRow("F4.7")
	s.AddRow("F4.7")
	s.AddRow("F4.7")
	assert.Len(t, s.Snapshot().Rows["F4.7"], 3, "capped at maxRows")

	s.SetCell("F4.7", 0, "name", "Acme Dx")
	assert.Equal(t, "Acme Dx", s.Snapshot().Rows["F4.7"][0]["name"])

	s.RemoveRow("F4.7", 2)
	s.RemoveRow("F4.7", 1)
	s.RemoveRow("F4.7", 0)
	assert.Len(t, s.Snapshot().Rows["F4.7"], 1, "floored at minRows")
}

func TestReset_RestoresBlankState(t *testing.T) {
	s := newSession(t)
	s.SetAnswer("F0.1", "something")
	s.NextSection()
	s.ValidateAll()

	s.Reset()
	st := s.Snapshot()
	assert.Empty(t, st.Answers)
	assert.Empty(t, st.Errors)
	assert.Equal(t, 0, st.CurrentSection)
	assert.False(t, st.Dirty)
	assert.Len(t, st.Rows["F4.7"], 1, "rows reseeded")
}

func TestValidateAll_OnlyVisibleFields(t *testing.T) {
	s := newSession(t)

	errs := s.ValidateAll()
	assert.Contains(t, errs, "F0.1")
	assert.NotContains(t, errs, "F3.4", "hidden fields are skipped")

	s.SetAnswer("F0.1", "filled")
	s.SetAnswer("F3.3", "yes")
	errs = s.ValidateAll()
	assert.NotContains(t, errs, "F0.1")
	assert.Contains(t, errs, "F3.4", "now visible and conditionally required")
}

func TestSnapshot_IsolatedFromLiveState(t *testing.T) {
	s := newSession(t)
	s.SetAnswer("F0.1", "original")

	st := s.Snapshot()
	st.Answers["F0.1"] = "mutated copy"
	st.Rows["F4.7"] = append(st.Rows["F4.7"], domain.Row{"name": "ghost"})

	assert.Equal(t, "original", s.Snapshot().Answers["F0.1"])
	assert.Len(t, s.Snapshot().Rows["F4.7"], 1)
}

func TestDispatch_UnknownActionIgnored(t *testing.T) {
	s := newSession(t)
	s.Dispatch(session.Action{Type: "time-travel"})
	assert.False(t, s.Snapshot().Dirty)
}
