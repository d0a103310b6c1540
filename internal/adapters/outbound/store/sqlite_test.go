package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/formgate/internal/adapters/outbound/store"
	"github.com/formgate/formgate/internal/domain"
)

func openStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)

	draft := &domain.Draft{
		ID:         "d-1",
		TemplateID: "tech-eval-v2",
		Answers:    domain.Answers{"F0.1": "Nanoparticle coating", "F2.1.score": float64(3)},
		Rows: domain.Rows{
			"F4.7": {{"competitor_name": "Acme Dx", "stage": "preclinical"}},
		},
	}
	require.NoError(t, s.Save(draft))

	got, err := s.Load("d-1")
	require.NoError(t, err)
	assert.Equal(t, "tech-eval-v2", got.TemplateID)
	assert.Equal(t, "Nanoparticle coating", got.Answers["F0.1"])
	assert.Equal(t, float64(3), got.Answers["F2.1.score"])
	require.Len(t, got.Rows["F4.7"], 1)
	assert.Equal(t, "Acme Dx", got.Rows["F4.7"][0]["competitor_name"])
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSave_UpsertsByID(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Save(&domain.Draft{ID: "d-1", TemplateID: "t", Answers: domain.Answers{"a": "v1"}}))
	require.NoError(t, s.Save(&domain.Draft{ID: "d-1", TemplateID: "t", Answers: domain.Answers{"a": "v2"}}))

	got, err := s.Load("d-1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Answers["a"])

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSave_RequiresID(t *testing.T) {
	s := openStore(t)
	assert.Error(t, s.Save(&domain.Draft{}))
	assert.Error(t, s.Save(nil))
}

func TestLoad_Missing(t *testing.T) {
	s := openStore(t)
	_, err := s.Load("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListAndDelete(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Save(&domain.Draft{ID: "d-1", TemplateID: "t"}))
	require.NoError(t, s.Save(&domain.Draft{ID: "d-2", TemplateID: "t"}))

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Delete("d-1"))
	require.NoError(t, s.Delete("d-1"), "deleting a missing draft is not an error")

	list, err = s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "d-2", list[0].ID)
}
