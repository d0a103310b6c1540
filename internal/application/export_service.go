package application

import (
	"time"

	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/session"
)

// ExportService turns a session snapshot into the plain keyed records
// handed to persistence and export collaborators, resolving stored
// option codes to display labels where the template declares options.
type ExportService struct {
	revision domain.RevisionInfo
}

func NewExportService(revision domain.RevisionInfo) *ExportService {
	return &ExportService{revision: revision}
}

// BuildSubmission assembles answers, rows, derived scores and option
// labels from the session's current state.
func (e *ExportService) BuildSubmission(sess *session.Session) *domain.Submission {
	snap := sess.Snapshot()
	tmpl := sess.Template()

	sub := &domain.Submission{
		SubmittedAt: time.Now().UTC(),
		Answers:     snap.Answers,
		Rows:        snap.Rows,
		Scores:      snap.Derived.Map(),
		Labels:      optionLabels(tmpl, snap.Answers),
	}
	if tmpl != nil {
		sub.TemplateID = tmpl.ID
	}
	return sub
}

// StampRevision records the template directory's version-control
// revision on the submission. Best effort: a non-repo directory
// leaves the field blank.
func (e *ExportService) StampRevision(sub *domain.Submission, templateDir string) {
	if e.revision == nil || !e.revision.IsRepo(templateDir) {
		return
	}
	if hash, err := e.revision.CommitHash(templateDir); err == nil {
		sub.TemplateRevision = hash
	}
}

// optionLabels maps each answered select-kind field to the friendly
// label of its stored value, so exports can render codes readably.
func optionLabels(tmpl *domain.Template, answers domain.Answers) map[string]string {
	if tmpl == nil {
		return nil
	}
	labels := make(map[string]string)
	for _, f := range tmpl.AllFields() {
		if len(f.Options) == 0 {
			continue
		}
		value, ok := answers[f.Code]
		if !ok || domain.IsEmpty(value) {
			continue
		}
		if s, ok := value.(string); ok {
			labels[f.Code] = f.OptionLabel(s)
		}
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}
