package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Template is a minimal Gamma project template with every section the
// assembler writes.
const Template = `#include "Gamma/Gamma.h"
//[[Includes]]
//[[/Includes]]

//[[Init Code]]
//[[/Init Code]]

void audioCB(gam::AudioIOData& io) {
    while (io()) {
//[[Dsp Code]]
//[[/Dsp Code]]
    }
}

int main() {
//[[Config Code]]
//[[/Config Code]]
    return 0;
}
`

// Workspace is a throwaway platform directory plus build directory.
type Workspace struct {
	PlatformDir string
	OutDir      string
}

// NewWorkspace creates a platform directory holding project/template.cpp
// with the given content, include and lib directories, and an empty
// build directory.
func NewWorkspace(t *testing.T, template string) *Workspace {
	t.Helper()

	root := t.TempDir()
	ws := &Workspace{
		PlatformDir: filepath.Join(root, "platform"),
		OutDir:      filepath.Join(root, "build"),
	}
	for _, dir := range []string{"project", "include", "lib"} {
		require.NoError(t, os.MkdirAll(filepath.Join(ws.PlatformDir, dir), 0755))
	}
	require.NoError(t, os.MkdirAll(ws.OutDir, 0755))
	WriteFile(t, filepath.Join(ws.PlatformDir, "project", "template.cpp"), template)
	return ws
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
