package tree

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = `[
    {"platform": "Gamma"},
    {"block": {"name": "Osc", "type": "module", "ports": {"frequency": 440}}},
    {"blockbundle": {"name": "Gains", "type": "constant", "size": 4, "ports": {"value": 1}}},
    {"stream": [{"type": "Name", "name": "Osc", "rate": -1}, {"type": "Name", "name": "AudioOut", "rate": -1}]},
    {"comment": "kept"}
]`

func TestLoad(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(sampleTree), 0644))

	// --- Act ---
	tr, err := Load(dir)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, tr.Nodes, 5)
	assert.Equal(t, "Gamma", tr.Platform())
	assert.Equal(t, filepath.Join(dir, FileName), tr.Path)
	assert.Equal(t, sampleTree, string(tr.Raw()))

	blocks := tr.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "Osc", blocks[0].Name)
	assert.Equal(t, 440.0, blocks[0].Ports["frequency"])
	assert.Equal(t, 4, blocks[1].Size)

	assert.Len(t, tr.Nodes[3].Stream, 2)
	assert.JSONEq(t, `"kept"`, string(tr.Nodes[4].Extra["comment"]))
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArtifactMissing))
	assert.False(t, errors.Is(err, ErrArtifactMalformed))
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"not json":      "{{{",
		"object root":   `{"platform": "Gamma"}`,
		"null root":     `null`,
		"scalar node":   `[1, 2]`,
		"wrong type":    `[{"block": "Osc"}]`,
		"truncated":     `[{"platform": "Gamma"}`,
		"empty content": ``,
		"null node":     `[null]`,
		"null mixed in": `[null, {"platform": "Gamma"}]`,
	}

	for name, content := range inputs {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

			_, err := Load(dir)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrArtifactMalformed)
		})
	}
}

func TestLoad_EmptyArray(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, Save(dir, nil))

	tr, err := Load(dir)

	require.NoError(t, err)
	assert.Empty(t, tr.Nodes)
	assert.Equal(t, "", tr.Platform())
}

func TestSave_ThenLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nodes := []Node{
		{Platform: "Gamma"},
		{Block: &Block{Name: "Out", Type: "module"}},
		{Extra: map[string]json.RawMessage{"custom": json.RawMessage(`{"a":1}`)}},
	}

	require.NoError(t, Save(dir, nodes))
	tr, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "Gamma", tr.Platform())
	require.Len(t, tr.Blocks(), 1)
	assert.Equal(t, "Out", tr.Blocks()[0].Name)
	assert.JSONEq(t, `{"a":1}`, string(tr.Nodes[2].Extra["custom"]))
}
