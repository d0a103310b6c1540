// Package session owns the mutable state of one form-filling session:
// the answer set, repeatable-group rows, section cursor, error map and
// derived scores. It is the only stateful component of the engine and
// the only caller of the condition, validation and scoring packages
// during editing. All mutation flows through Dispatch, serialized by
// one mutex per session.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/condition"
	"github.com/formgate/formgate/internal/domain/groups"
	"github.com/formgate/formgate/internal/domain/scoring"
	"github.com/formgate/formgate/internal/domain/validation"
)

// DefaultDebounce is the quiet period before an edited field is
// re-validated.
const DefaultDebounce = 300 * time.Millisecond

// State is the session snapshot handed to collaborators. Collections
// are copies; mutating a snapshot never touches the live session.
type State struct {
	Answers        domain.Answers
	Rows           domain.Rows
	CurrentSection int
	Errors         map[string]string
	Derived        scoring.Derived
	Dirty          bool
	Loading        bool
	LoadError      string
}

// Session is the form state container.
type Session struct {
	mu       sync.Mutex
	template *domain.Template
	state    State

	// Normalized once per template; immutable afterwards.
	conditionals map[string]*condition.Config
	groupConfigs map[string]*groups.Config

	debounce     time.Duration
	timers       map[string]*time.Timer
	lastHydrated string
}

// Option configures a session at construction.
type Option func(*Session)

// WithDebounce overrides the validation quiet period.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// New builds a session for a template, normalizing every field's
// conditional and group configuration exactly once and seeding
// predefined/min rows.
func New(template *domain.Template, opts ...Option) *Session {
	s := &Session{
		template:     template,
		debounce:     DefaultDebounce,
		timers:       make(map[string]*time.Timer),
		conditionals: make(map[string]*condition.Config),
		groupConfigs: make(map[string]*groups.Config),
		state: State{
			Answers: make(domain.Answers),
			Rows:    make(domain.Rows),
			Errors:  make(map[string]string),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if template != nil {
		for _, f := range template.AllFields() {
			if cfg := condition.Parse(f.Conditional); cfg != nil {
				s.conditionals[f.Code] = cfg
			}
			if f.Kind == domain.KindRepeatableGroup || f.Kind == domain.KindDataTableSelector {
				cfg := groups.Parse(f.GroupLayout)
				s.groupConfigs[f.Code] = cfg
				if seeded := groups.SeedRows(cfg); len(seeded) > 0 {
					s.state.Rows[f.Code] = seeded
				}
			}
		}
	}

	s.state.Derived = scoring.Calculate(scoring.FromAnswers(s.state.Answers))
	return s
}

// Template returns the immutable form definition.
func (s *Session) Template() *domain.Template { return s.template }

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	out := s.state
	out.Answers = s.state.Answers.Clone()
	out.Rows = s.state.Rows.Clone()
	out.Errors = make(map[string]string, len(s.state.Errors))
	for k, v := range s.state.Errors {
		out.Errors[k] = v
	}
	return out
}

// SetAnswer stores a raw field value, marks the session dirty, clears
// that field's stale error (and only that field's), recomputes the
// derived scores, and schedules a debounced re-validation using the
// field's requiredness as it is at fire time.
func (s *Session) SetAnswer(code string, value any) {
	s.Dispatch(Action{Type: ActionSetAnswer, Field: code, Value: value})
}

// SetRows replaces a repeatable-group row list wholesale.
func (s *Session) SetRows(code string, rows []domain.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applySetRows(code, rows)
}

// AddRow appends a blank row within the group's max bound; a no-op at
// the bound.
func (s *Session) AddRow(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.groupConfigs[code]
	if cfg == nil {
		return
	}
	s.applySetRows(code, groups.AddRow(cfg, s.state.Rows[code]))
}

// RemoveRow deletes a row within the group's min bound; a no-op at
// the bound or out of range.
func (s *Session) RemoveRow(code string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.groupConfigs[code]
	if cfg == nil {
		return
	}
	s.applySetRows(code, groups.RemoveRow(cfg, s.state.Rows[code], index))
}

// SetCell writes one cell of one row.
func (s *Session) SetCell(code string, index int, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applySetRows(code, groups.SetCell(s.state.Rows[code], index, key, value))
}

func (s *Session) applySetRows(code string, rows []domain.Row) {
	s.state.Rows[code] = rows
	s.state.Dirty = true
	delete(s.state.Errors, code)
	s.recomputeLocked()
}

// Hydrate replaces answers and rows wholesale from a saved draft,
// clearing the dirty flag and error map. Repeated hydration with the
// same snapshot is a no-op so in-progress edits are never clobbered
// by a stale re-delivery.
func (s *Session) Hydrate(answers domain.Answers, rows domain.Rows) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := fingerprint(answers, rows)
	if fp != "" && fp == s.lastHydrated {
		return
	}
	s.lastHydrated = fp

	s.state.Answers = answers.Clone()
	if rows == nil {
		s.state.Rows = make(domain.Rows)
	} else {
		s.state.Rows = rows.Clone()
	}
	s.state.Errors = make(map[string]string)
	s.state.Dirty = false
	s.recomputeLocked()
}

// Reset restores the blank post-load state: empty answers, reseeded
// rows, cleared errors, clean dirty flag.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Answers = make(domain.Answers)
	s.state.Rows = make(domain.Rows)
	for code, cfg := range s.groupConfigs {
		if seeded := groups.SeedRows(cfg); len(seeded) > 0 {
			s.state.Rows[code] = seeded
		}
	}
	s.state.Errors = make(map[string]string)
	s.state.CurrentSection = 0
	s.state.Dirty = false
	s.lastHydrated = ""
	s.recomputeLocked()
}

// SectionCount returns the number of sections in the template.
func (s *Session) SectionCount() int {
	if s.template == nil {
		return 0
	}
	return len(s.template.Sections)
}

// NextSection advances the cursor; a no-op at the last section.
func (s *Session) NextSection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentSection < s.SectionCount()-1 {
		s.state.CurrentSection++
	}
}

// PreviousSection moves the cursor back; a no-op at the first section.
func (s *Session) PreviousSection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentSection > 0 {
		s.state.CurrentSection--
	}
}

// FieldVisible evaluates the field's conditional configuration
// against the live answers. Fields without one are always visible.
func (s *Session) FieldVisible(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return condition.ShouldShow(s.conditionals[code], s.state.Answers)
}

// FieldRequired returns the field's effective requiredness: its base
// flag adjusted by any require/optional conditional rules.
func (s *Session) FieldRequired(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldRequiredLocked(code)
}

func (s *Session) fieldRequiredLocked(code string) bool {
	base := false
	if s.template != nil {
		if f, ok := s.template.FieldByCode(code); ok {
			base = f.Required
		}
	}
	return condition.ShouldRequire(s.conditionals[code], base, s.state.Answers)
}

// ValidateField validates one field immediately against its live
// effective requiredness, merging the result into the error map.
func (s *Session) ValidateField(code string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateFieldLocked(code)
}

func (s *Session) validateFieldLocked(code string) string {
	if s.template == nil {
		return ""
	}
	field, ok := s.template.FieldByCode(code)
	if !ok {
		return ""
	}
	// Hidden fields are exempt from validation.
	if !condition.ShouldShow(s.conditionals[code], s.state.Answers) {
		delete(s.state.Errors, code)
		return ""
	}
	required := s.fieldRequiredLocked(code)

	var msg string
	if field.Kind == domain.KindRepeatableGroup || field.Kind == domain.KindDataTableSelector {
		result := validation.ValidateForm(
			[]domain.FieldConfig{field}, s.state.Answers, s.state.Rows,
			map[string]bool{code: required},
		)
		msg = result[code]
	} else {
		msg = validation.ValidateField(field, required, s.state.Answers[code])
	}

	if msg == "" {
		delete(s.state.Errors, code)
	} else {
		s.state.Errors[code] = msg
	}
	return msg
}

// ValidateAll validates every currently visible field with its
// effective requiredness and replaces the error map with the result.
// Returns the error map; submission should be blocked while it is
// non-empty.
func (s *Session) ValidateAll() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.template == nil {
		return map[string]string{}
	}

	var visible []domain.FieldConfig
	required := make(map[string]bool)
	for _, f := range s.template.AllFields() {
		if !condition.ShouldShow(s.conditionals[f.Code], s.state.Answers) {
			continue
		}
		visible = append(visible, f)
		required[f.Code] = s.fieldRequiredLocked(f.Code)
	}

	s.state.Errors = validation.ValidateForm(visible, s.state.Answers, s.state.Rows, required)

	out := make(map[string]string, len(s.state.Errors))
	for k, v := range s.state.Errors {
		out[k] = v
	}
	return out
}

// Close cancels any pending debounced validations.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, t := range s.timers {
		t.Stop()
		delete(s.timers, code)
	}
}

// scheduleValidation is the lone suspension point: cancel-and-
// reschedule, last edit wins, at most one pending task per field.
func (s *Session) scheduleValidation(code string) {
	if t, ok := s.timers[code]; ok {
		t.Stop()
	}
	s.timers[code] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.timers, code)
		s.validateFieldLocked(code)
	})
}

// recomputeLocked refreshes the derived-score cache; pure arithmetic,
// cheap enough to run on every keystroke.
func (s *Session) recomputeLocked() {
	s.state.Derived = scoring.Calculate(scoring.FromAnswers(s.state.Answers))
}

// fingerprint identifies a hydration snapshot so the same payload is
// applied at most once.
func fingerprint(answers domain.Answers, rows domain.Rows) string {
	payload, err := json.Marshal(map[string]any{"answers": answers, "rows": rows})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
