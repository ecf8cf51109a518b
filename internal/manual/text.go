package manual

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxNameLength bounds stored names, counted in characters.
const maxNameLength = 255

// NormalizeText strips combining marks and lowercases, so "Exploradóres"
// and "EXPLORADORES" compare equal.
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// sortNames orders directory or file names the way the mapper emits them:
// Spanish collation, byte order as tie-break so output is byte-stable.
func sortNames(names []string) {
	c := collate.New(language.Spanish)
	sort.SliceStable(names, func(i, j int) bool {
		if cmp := c.CompareString(names[i], names[j]); cmp != 0 {
			return cmp < 0
		}
		return names[i] < names[j]
	})
}

// sortLessonFiles orders files for lesson numbering: Spanish collation with
// numeric digit runs ("S2" before "S10"), ignoring case and accents.
// Name bytes then relative path break ties, so the result does not depend on input order.
func sortLessonFiles(files []FileNode) {
	c := collate.New(language.Spanish, collate.Numeric, collate.Loose)
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if cmp := c.CompareString(a.Name, b.Name); cmp != 0 {
			return cmp < 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.RelativePath < b.RelativePath
	})
}
