package manual

import (
	"regexp"
	"strconv"
	"strings"
)

// Extractor guesses a lesson number from a file name. ok is false when the
// name carries no usable number.
type Extractor func(fileName string) (n int, ok bool)

// space is the ECMAScript \s class; RE2's \s is ASCII only.
const space = `[\t\n\v\f\r\p{Z}\x{FEFF}]`

var (
	// [Ss] rather than (?i)S: case folding would also accept U+017F.
	sessionPattern       = regexp.MustCompile(`[Ss]` + space + `*(\d+)`)
	explorerLabelPattern = regexp.MustCompile(`(?i)(?:LECCI[ÓO]N|ART[IÍ]CULO)` + space + `*-?` + space + `*(\d+)`)
	leadingNumberPattern = regexp.MustCompile(`^(\d{1,3})\b`)
)

// ExtractRegularLessonNumber reads a session marker such as "S3" or "s 12".
func ExtractRegularLessonNumber(fileName string) (int, bool) {
	return firstNumber(fileName, sessionPattern)
}

// ExtractExplorerLessonNumber reads "LECCIÓN 4" / "ARTÍCULO-7" (accents optional),
// falling back to a leading run of up to three digits.
func ExtractExplorerLessonNumber(fileName string) (int, bool) {
	return firstNumber(fileName, explorerLabelPattern, leadingNumberPattern)
}

func firstNumber(s string, patterns ...*regexp.Regexp) (int, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Too many digits for an int; treat as no marker.
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// NumberedFile pairs a file with its assigned lesson number.
type NumberedFile struct {
	File   FileNode
	Number int
}

// AssignLessonNumbers gives every file a distinct positive lesson number.
//
// Files are ordered by sortLessonFiles. Each takes the extracted number, or its
// 1-based position when extraction fails; a number that is not positive or is
// already taken is bumped to the next free integer. Earlier files in the order
// win collisions. The input slice is not modified.
func AssignLessonNumbers(files []FileNode, extract Extractor) []NumberedFile {
	ordered := make([]FileNode, len(files))
	copy(ordered, files)
	sortLessonFiles(ordered)

	used := make(map[int]bool, len(ordered))
	result := make([]NumberedFile, len(ordered))
	for i, f := range ordered {
		n, ok := extract(f.Name)
		if !ok {
			n = i + 1
		}
		for n <= 0 || used[n] {
			n++
		}
		used[n] = true
		result[i] = NumberedFile{File: f, Number: n}
	}
	return result
}

// fileExt returns the extension of name including the last dot. A name with
// no dot, a single leading dot (".pdf") or ".." has none; "..pdf" has ".pdf".
func fileExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || name == ".." {
		return ""
	}
	return name[i:]
}

// isPDF reports whether name has a .pdf extension, in any case.
func isPDF(name string) bool {
	return strings.EqualFold(fileExt(name), ".pdf")
}

// lessonName is the file name without its extension, bounded for storage.
func lessonName(fileName string) string {
	return truncate(strings.TrimSuffix(fileName, fileExt(fileName)), maxNameLength)
}
