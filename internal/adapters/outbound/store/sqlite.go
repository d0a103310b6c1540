// Package store persists drafts in a local SQLite database. Answers,
// rows and derived scores travel as JSON columns; the engine itself
// never touches this package.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/formgate/formgate/internal/domain"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	id          TEXT PRIMARY KEY,
	template_id TEXT NOT NULL DEFAULT '',
	answers     TEXT NOT NULL DEFAULT '{}',
	rows        TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_drafts_template ON drafts(template_id);
`

// SQLiteStore implements domain.DraftStore.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates (or opens) the draft database at path, creating parent
// directories as needed.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening draft database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing draft schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts a draft by id.
func (s *SQLiteStore) Save(draft *domain.Draft) error {
	if draft == nil || draft.ID == "" {
		return fmt.Errorf("draft id is required")
	}

	answers, err := json.Marshal(draft.Answers)
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	rows, err := json.Marshal(draft.Rows)
	if err != nil {
		return fmt.Errorf("encoding rows: %w", err)
	}

	now := time.Now().UTC()
	created := draft.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err = s.db.Exec(`
		INSERT INTO drafts (id, template_id, answers, rows, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			template_id = excluded.template_id,
			answers     = excluded.answers,
			rows        = excluded.rows,
			updated_at  = excluded.updated_at`,
		draft.ID, draft.TemplateID, string(answers), string(rows),
		created.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving draft %s: %w", draft.ID, err)
	}
	return nil
}

// Load retrieves one draft by id.
func (s *SQLiteStore) Load(id string) (*domain.Draft, error) {
	row := s.db.QueryRow(
		`SELECT id, template_id, answers, rows, created_at, updated_at FROM drafts WHERE id = ?`, id)

	var d domain.Draft
	var answers, rowsJSON, created, updated string
	if err := row.Scan(&d.ID, &d.TemplateID, &answers, &rowsJSON, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("draft %s not found", id)
		}
		return nil, fmt.Errorf("loading draft %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(answers), &d.Answers); err != nil {
		return nil, fmt.Errorf("decoding answers for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &d.Rows); err != nil {
		return nil, fmt.Errorf("decoding rows for %s: %w", id, err)
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, created)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &d, nil
}

// List returns summaries of every stored draft, most recent first.
func (s *SQLiteStore) List() ([]domain.DraftSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, template_id, updated_at FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var out []domain.DraftSummary
	for rows.Next() {
		var d domain.DraftSummary
		var updated string
		if err := rows.Scan(&d.ID, &d.TemplateID, &updated); err != nil {
			return nil, fmt.Errorf("scanning draft row: %w", err)
		}
		d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a draft; deleting a missing draft is not an error.
func (s *SQLiteStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
