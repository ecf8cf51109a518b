package manual

import (
	"fmt"
	"path/filepath"
)

// Mapper builds schema snapshots of a directory tree.
type Mapper struct {
	fsmgr  FilesystemManager
	ignore IgnoreMatcher
	logger Logger
}

// NewMapper creates a Mapper. ignore may be nil.
func NewMapper(fsmgr FilesystemManager, ignore IgnoreMatcher, logger Logger) *Mapper {
	return &Mapper{fsmgr: fsmgr, ignore: ignore, logger: logger}
}

// Map walks inputDir depth-first, one directory at a time, and returns its
// snapshot. Relative paths in the snapshot are taken from baseDir and use
// forward slashes.
func (m *Mapper) Map(inputDir, baseDir string) (*Schema, error) {
	root, err := m.fsmgr.Resolve(inputDir)
	if err != nil || !root.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, inputDir)
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory: %w", err)
	}

	w := &walk{Mapper: m, base: base, input: root.String()}
	node, err := w.mapDirectory(root)
	if err != nil {
		return nil, err
	}

	totals := CountTotals(node)
	m.logger.Info("directory mapped",
		"input", root.String(),
		"directories", totals.Directories,
		"leaf_directories", totals.LeafDirectories,
		"files", totals.Files,
	)
	return &Schema{Root: node, Totals: &totals}, nil
}

type walk struct {
	*Mapper
	base  string
	input string
}

func (w *walk) mapDirectory(dir *Path) (*DirectoryNode, error) {
	entries, err := w.fsmgr.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir.String(), err)
	}

	var dirNames, fileNames []string
	for _, e := range entries {
		childAbs := filepath.Join(dir.String(), e.Name())
		switch {
		case e.IsDir():
			if !w.ignored(childAbs, true) {
				dirNames = append(dirNames, e.Name())
			}
		case e.Type().IsRegular():
			if !w.ignored(childAbs, false) {
				fileNames = append(fileNames, e.Name())
			}
		default:
			w.logger.Debug("skipping non-regular entry", "path", childAbs)
		}
	}
	sortNames(dirNames)
	sortNames(fileNames)

	rel, err := w.relative(dir.String())
	if err != nil {
		return nil, err
	}
	node := &DirectoryNode{
		Name:         filepath.Base(dir.String()),
		RelativePath: rel,
		Directories:  make([]*DirectoryNode, 0, len(dirNames)),
		Files:        make([]FileNode, 0, len(fileNames)),
	}

	for _, name := range fileNames {
		fileRel, err := w.relative(filepath.Join(dir.String(), name))
		if err != nil {
			return nil, err
		}
		node.Files = append(node.Files, FileNode{Name: name, RelativePath: fileRel})
	}

	for _, name := range dirNames {
		child, err := w.fsmgr.Resolve(filepath.Join(dir.String(), name))
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", name, err)
		}
		childNode, err := w.mapDirectory(child)
		if err != nil {
			return nil, err
		}
		node.Directories = append(node.Directories, childNode)
	}

	return node, nil
}

// relative returns abs relative to the base directory with forward slashes,
// or "." for the base itself.
func (w *walk) relative(abs string) (string, error) {
	rel, err := filepath.Rel(w.base, abs)
	if err != nil {
		return "", fmt.Errorf("calculating relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "" {
		rel = "."
	}
	return rel, nil
}

func (w *walk) ignored(abs string, isDir bool) bool {
	if w.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(w.input, abs)
	if err != nil {
		return false
	}
	return w.ignore.Match(filepath.ToSlash(rel), isDir)
}
