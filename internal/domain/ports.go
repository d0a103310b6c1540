package domain

// TemplateLoader loads a form template from an external source.
// Warnings report configuration blobs that were dropped during
// normalization; they never fail the load.
type TemplateLoader interface {
	Load(path string) (*Template, []string, error)
}

// DraftStore persists in-progress response sets.
type DraftStore interface {
	Save(draft *Draft) error
	Load(id string) (*Draft, error)
	List() ([]DraftSummary, error)
	Delete(id string) error
	Close() error
}

// RevisionInfo resolves the version-control revision of a template
// directory so exports can record which template produced them.
type RevisionInfo interface {
	IsRepo(path string) bool
	CommitHash(path string) (string, error)
}
