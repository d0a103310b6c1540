package application

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/session"
)

// SessionService orchestrates the form lifecycle: load template →
// open session → hydrate from a draft → edit → validate → save/submit.
type SessionService struct {
	loader domain.TemplateLoader
	store  domain.DraftStore
}

func NewSessionService(loader domain.TemplateLoader, store domain.DraftStore) *SessionService {
	return &SessionService{loader: loader, store: store}
}

// OpenResult is a freshly opened session plus the loader warnings a
// caller may want to surface.
type OpenResult struct {
	Session  *session.Session
	Template *domain.Template
	DraftID  string
	Warnings []string
}

// Open loads the template at templatePath and opens a session over
// it. When draftID is non-empty the stored draft hydrates the session.
func (s *SessionService) Open(templatePath, draftID string, opts ...session.Option) (*OpenResult, error) {
	tmpl, warnings, err := s.loader.Load(templatePath)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	sess := session.New(tmpl, opts...)

	if draftID != "" {
		if s.store == nil {
			return nil, fmt.Errorf("draft %s requested but no draft store configured", draftID)
		}
		draft, err := s.store.Load(draftID)
		if err != nil {
			return nil, fmt.Errorf("loading draft %s: %w", draftID, err)
		}
		sess.Hydrate(draft.Answers, draft.Rows)
	}

	return &OpenResult{Session: sess, Template: tmpl, DraftID: draftID, Warnings: warnings}, nil
}

// SaveDraft persists the session's current answers and rows. A blank
// id creates a new draft and returns its generated id.
func (s *SessionService) SaveDraft(sess *session.Session, id string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("no draft store configured")
	}

	snap := sess.Snapshot()
	now := time.Now().UTC()

	draft := &domain.Draft{
		ID:        id,
		Answers:   snap.Answers,
		Rows:      snap.Rows,
		UpdatedAt: now,
	}
	if tmpl := sess.Template(); tmpl != nil {
		draft.TemplateID = tmpl.ID
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
		draft.CreatedAt = now
	}

	if err := s.store.Save(draft); err != nil {
		return "", fmt.Errorf("saving draft: %w", err)
	}
	return draft.ID, nil
}

// Submit runs full validation and, when clean, returns the outbound
// submission. A non-empty error map blocks submission; it is returned
// as data, not as an error.
func (s *SessionService) Submit(sess *session.Session, export *ExportService) (*domain.Submission, map[string]string, error) {
	if errs := sess.ValidateAll(); len(errs) > 0 {
		return nil, errs, nil
	}
	sub := export.BuildSubmission(sess)
	return sub, nil, nil
}
