package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/stridegen/internal/tree"
)

// LockFile marks a build directory as in use.
const LockFile = ".stridegen.lock"

// ErrBuildLocked is returned when another build holds the build directory.
var ErrBuildLocked = errors.New("build directory is locked by another build")

type buildLock struct {
	path string
}

// acquireLock creates the lock file exclusively and records the build id in
// it. The build directory itself must already exist.
func acquireLock(outDir, buildID string) (*buildLock, error) {
	info, err := os.Stat(outDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: build directory %s does not exist", tree.ErrArtifactMissing, outDir)
		}
		return nil, fmt.Errorf("failed to access build directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build directory %s is not a directory", outDir)
	}

	path := filepath.Join(outDir, LockFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			owner, _ := os.ReadFile(path)
			return nil, fmt.Errorf("%w: %s (held by build %q); delete the file if no build is running", ErrBuildLocked, path, string(owner))
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	_, werr := f.WriteString(buildID)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	return &buildLock{path: path}, nil
}

func (l *buildLock) release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
