package manual

import "io/fs"

// FilesystemManager provides the read-only filesystem access the mapper needs.
// It abstracts directory enumeration to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve converts a raw path to an absolute Path and stats it.
	Resolve(rawPath string) (*Path, error)

	// ReadDir returns the immediate children of a directory, in any order.
	ReadDir(path *Path) ([]fs.DirEntry, error)
}

// IgnoreMatcher decides whether an entry is excluded from the snapshot.
// relativePath is slash-separated and relative to the mapped input directory.
type IgnoreMatcher interface {
	Match(relativePath string, isDir bool) bool
}
