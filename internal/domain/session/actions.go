package session

import (
	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/condition"
	"github.com/formgate/formgate/internal/domain/groups"
	"github.com/formgate/formgate/internal/domain/scoring"
)

// ActionType is the closed set of reducer actions a session accepts.
type ActionType string

const (
	ActionSetTemplate       ActionType = "set-template"
	ActionSetAnswer         ActionType = "set-answer"
	ActionSetRepeatRows     ActionType = "set-repeat-rows"
	ActionSetCurrentSection ActionType = "set-current-section"
	ActionSetLoading        ActionType = "set-loading"
	ActionSetError          ActionType = "set-error"
	ActionClearErrors       ActionType = "clear-errors"
	ActionSetDerivedScores  ActionType = "set-derived-scores"
	ActionHydrate           ActionType = "hydrate-initial-data"
	ActionReset             ActionType = "reset"
)

// Action is one reducer input. Only the fields relevant to the type
// are read.
type Action struct {
	Type     ActionType
	Field    string
	Value    any
	Rows     []domain.Row
	Section  int
	Loading  bool
	Error    string
	Template *domain.Template
	Answers  domain.Answers
	AllRows  domain.Rows
	Derived  *scoring.Derived
}

// Dispatch applies one action to the session state. Unknown action
// types are ignored.
func (s *Session) Dispatch(a Action) {
	switch a.Type {
	case ActionSetTemplate:
		s.setTemplate(a.Template)
	case ActionSetAnswer:
		s.setAnswer(a.Field, a.Value)
	case ActionSetRepeatRows:
		s.SetRows(a.Field, a.Rows)
	case ActionSetCurrentSection:
		s.setSection(a.Section)
	case ActionSetLoading:
		s.mu.Lock()
		s.state.Loading = a.Loading
		s.mu.Unlock()
	case ActionSetError:
		s.mu.Lock()
		s.state.LoadError = a.Error
		s.mu.Unlock()
	case ActionClearErrors:
		s.mu.Lock()
		s.state.Errors = make(map[string]string)
		s.mu.Unlock()
	case ActionSetDerivedScores:
		if a.Derived != nil {
			s.mu.Lock()
			s.state.Derived = *a.Derived
			s.mu.Unlock()
		}
	case ActionHydrate:
		s.Hydrate(a.Answers, a.AllRows)
	case ActionReset:
		s.Reset()
	}
}

// setAnswer stores the raw value, marks the session dirty, clears only
// this field's stale error, refreshes the derived cache, and schedules
// the debounced re-validation.
func (s *Session) setAnswer(code string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Answers[code] = value
	s.state.Dirty = true
	delete(s.state.Errors, code)
	s.recomputeLocked()
	s.scheduleValidation(code)
}

// setSection clamps the cursor to the valid section range.
func (s *Session) setSection(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSectionLocked(index)
}

// setTemplate swaps the form definition, renormalizing every field
// configuration and reseeding rows for groups with no current rows.
func (s *Session) setTemplate(template *domain.Template) {
	if template == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.template = template
	s.conditionals = make(map[string]*condition.Config)
	s.groupConfigs = make(map[string]*groups.Config)
	for _, f := range template.AllFields() {
		if cfg := condition.Parse(f.Conditional); cfg != nil {
			s.conditionals[f.Code] = cfg
		}
		if f.Kind == domain.KindRepeatableGroup || f.Kind == domain.KindDataTableSelector {
			cfg := groups.Parse(f.GroupLayout)
			s.groupConfigs[f.Code] = cfg
			if _, has := s.state.Rows[f.Code]; !has {
				if seeded := groups.SeedRows(cfg); len(seeded) > 0 {
					s.state.Rows[f.Code] = seeded
				}
			}
		}
	}
	s.setSectionLocked(s.state.CurrentSection)
}

func (s *Session) setSectionLocked(index int) {
	max := s.SectionCount() - 1
	if index < 0 {
		index = 0
	}
	if max >= 0 && index > max {
		index = max
	}
	s.state.CurrentSection = index
}
