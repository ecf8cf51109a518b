package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"manuals-go/internal/manual"
)

// MockFile represents an entry in the mock filesystem.
type MockFile struct {
	Content []byte
	Mode    fs.FileMode // type bits and permissions
	ModTime time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Paths are made absolute on insert; parent directories are created implicitly.
type MockFilesystemManager struct {
	files map[string]*MockFile
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
	}
}

// AddFile adds a regular file.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.add(path, &MockFile{Content: content, Mode: 0644})
}

// AddDirectory adds a directory.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.add(path, &MockFile{Mode: fs.ModeDir | 0755})
}

// AddSymlink adds a symbolic link entry. Its target is not followed.
func (m *MockFilesystemManager) AddSymlink(path string) {
	m.add(path, &MockFile{Mode: fs.ModeSymlink | 0777})
}

func (m *MockFilesystemManager) add(path string, f *MockFile) {
	absPath := mustAbs(path)
	f.ModTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	m.files[absPath] = f

	for dir := filepath.Dir(absPath); ; dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = &MockFile{Mode: fs.ModeDir | 0755, ModTime: f.ModTime}
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
}

func mustAbs(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		panic(fmt.Sprintf("resolving %s: %v", path, err))
	}
	return absPath
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*manual.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}

	return manual.NewPath(absPath, file.Mode.IsDir(), infoFor(absPath, file)), nil
}

// ReadDir returns the direct children of path in reverse name order, so
// callers cannot depend on the order entries come back in.
func (m *MockFilesystemManager) ReadDir(path *manual.Path) ([]fs.DirEntry, error) {
	dir, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	if !dir.Mode.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", path.String())
	}

	var entries []fs.DirEntry
	for p, f := range m.files {
		if p != path.String() && filepath.Dir(p) == path.String() {
			entries = append(entries, fs.FileInfoToDirEntry(infoFor(p, f)))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() > entries[j].Name() })
	return entries, nil
}

func infoFor(absPath string, f *MockFile) fs.FileInfo {
	return &mockFileInfo{
		name:    filepath.Base(absPath),
		size:    int64(len(f.Content)),
		mode:    f.Mode,
		modTime: f.ModTime,
	}
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.mode.IsDir() }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ manual.FilesystemManager = (*MockFilesystemManager)(nil)
