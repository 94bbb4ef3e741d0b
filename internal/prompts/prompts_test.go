package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/git-provenance/internal/models"
)

func TestCreateAssignsIdentity(t *testing.T) {
	store := NewStore(t.TempDir())

	p := &Prompt{Text: "Add JWT refresh tokens", Tool: models.ToolClaude, Confidence: models.ConfidenceHigh}
	require.NoError(t, store.Create(p))

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.Timestamp.IsZero())

	got, err := store.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Text, got.Text)
	assert.Equal(t, models.ToolClaude, got.Tool)
	assert.Equal(t, models.ConfidenceHigh, got.Confidence)
	assert.True(t, p.Timestamp.Equal(got.Timestamp))
}

func TestSaveWritesUnderPromptsDir(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	p := &Prompt{ID: "fixed-id", Timestamp: time.Now().UTC(), Text: "x"}
	require.NoError(t, store.Save(p))

	_, err := os.Stat(filepath.Join(root, ".ai-prov", "prompts", "fixed-id.json"))
	assert.NoError(t, err)
}

func TestSaveRequiresID(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.Error(t, store.Save(&Prompt{Text: "no identity"}))
}

func TestGetMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Get("no-such-id")
	assert.True(t, errors.Is(err, ErrPromptNotFound))
}

func TestAllSortedByTimestamp(t *testing.T) {
	store := NewStore(t.TempDir())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(&Prompt{ID: "b", Timestamp: base.Add(time.Hour), Text: "second"}))
	require.NoError(t, store.Save(&Prompt{ID: "a", Timestamp: base, Text: "first"}))
	require.NoError(t, store.Save(&Prompt{ID: "c", Timestamp: base.Add(2 * time.Hour), Text: "third"}))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Text)
	assert.Equal(t, "second", all[1].Text)
	assert.Equal(t, "third", all[2].Text)
}

func TestAllWithoutStoreDirectory(t *testing.T) {
	store := NewStore(t.TempDir())

	all, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListForFile(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now().UTC()

	require.NoError(t, store.Save(&Prompt{ID: "1", Timestamp: now, Text: "auth", FilesModified: []string{"auth.py"}}))
	require.NoError(t, store.Save(&Prompt{ID: "2", Timestamp: now, Text: "util", FilesCreated: []string{"util.py"}}))

	forAuth, err := store.ListForFile("auth.py")
	require.NoError(t, err)
	require.Len(t, forAuth, 1)
	assert.Equal(t, "auth", forAuth[0].Text)

	forUtil, err := store.ListForFile("util.py")
	require.NoError(t, err)
	require.Len(t, forUtil, 1)
	assert.Equal(t, "util", forUtil[0].Text)

	none, err := store.ListForFile("missing.py")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListForRequirement(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now().UTC()

	require.NoError(t, store.Save(&Prompt{ID: "1", Timestamp: now, Text: "linked", Trace: []string{"SPEC-89"}}))
	require.NoError(t, store.Save(&Prompt{ID: "2", Timestamp: now, Text: "other", Trace: []string{"SPEC-90"}}))

	linked, err := store.ListForRequirement("SPEC-89")
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "linked", linked[0].Text)

	none, err := store.ListForRequirement("SPEC-404")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAllSkipsNonJSONEntries(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Save(&Prompt{ID: "keep", Timestamp: time.Now().UTC(), Text: "keep"}))
	dir := filepath.Join(root, ".ai-prov", "prompts")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("notes"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "keep", all[0].Text)
}
