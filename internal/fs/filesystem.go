package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"manuals-go/internal/manual"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Resolve converts a raw path to an absolute Path. Symlinks are followed.
func (m *OSFilesystemManager) Resolve(rawPath string) (*manual.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	return manual.NewPath(absPath, info.IsDir(), info), nil
}

// ReadDir returns the entries of a directory without following symlinks.
func (m *OSFilesystemManager) ReadDir(path *manual.Path) ([]fs.DirEntry, error) {
	if !path.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path.String())
	}
	entries, err := os.ReadDir(path.String())
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	return entries, nil
}

// Compile-time check that OSFilesystemManager implements manual.FilesystemManager interface
var _ manual.FilesystemManager = (*OSFilesystemManager)(nil)
