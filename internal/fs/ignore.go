package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"manuals-go/internal/manual"
)

// IgnoreFileName is the per-tree ignore file read from the mapped input directory.
const IgnoreFileName = ".manualsignore"

// defaultIgnorePatterns are always applied regardless of config or the ignore file.
var defaultIgnorePatterns = []string{IgnoreFileName}

// IgnoreMatcher checks paths relative to the mapped directory against
// gitignore-style patterns.
type IgnoreMatcher struct {
	patterns []string
	gi       *ignore.GitIgnore
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	patterns := append([]string{}, defaultIgnorePatterns...)
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, raw)
	}
	return &IgnoreMatcher{
		patterns: patterns,
		gi:       ignore.CompileIgnoreLines(patterns...),
	}
}

// LoadIgnoreMatcher combines configured patterns with the ignore file found in inputDir.
func LoadIgnoreMatcher(inputDir string, configured []string) (*IgnoreMatcher, error) {
	fromFile, err := ParseIgnoreFile(filepath.Join(inputDir, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	return NewIgnoreMatcher(append(append([]string{}, configured...), fromFile...)), nil
}

// Match reports whether the given slash-separated relative path should be ignored.
// Directories are matched with a trailing slash so "build/" patterns apply to them.
func (m *IgnoreMatcher) Match(relativePath string, isDir bool) bool {
	p := filepath.ToSlash(relativePath)
	if isDir && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return m.gi.MatchesPath(p)
}

// ParseIgnoreFile reads an ignore file and returns the raw pattern strings.
// Returns nil and no error if the file does not exist.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}

var _ manual.IgnoreMatcher = (*IgnoreMatcher)(nil)
