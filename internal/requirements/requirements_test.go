package requirements

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `requirements:
  - id: SPEC-001
    title: Session handling
    status: active
  - id: SPEC-002
    title: Token rotation
    status: active
  - id: SPEC-099
    title: Rate limiting
    status: planned
`

func writeRequirements(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	store, err := Load(writeRequirements(t, sampleYAML))
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, "SPEC-001", all[0].ID)
	assert.Equal(t, "SPEC-099", all[2].ID)

	req, err := store.Get("SPEC-002")
	require.NoError(t, err)
	assert.Equal(t, "Token rotation", req.Title)
	assert.Equal(t, "active", req.Status)
}

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, store.All())

	_, err = store.Get("SPEC-001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeRequirements(t, "requirements: [not: {valid"))
	require.Error(t, err)
}

func TestLoadSkipsEntriesWithoutID(t *testing.T) {
	store, err := Load(writeRequirements(t, "requirements:\n  - title: orphan\n  - id: SPEC-001\n    title: Kept\n"))
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "SPEC-001", all[0].ID)
}
