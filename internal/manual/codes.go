package manual

import (
	"fmt"
	"unicode/utf16"
)

// RegularLessonCode formats the code of a lesson in a regular group.
func RegularLessonCode(groupCode, stage, term, lessonNumber int) string {
	return fmt.Sprintf("G%02d-A%02d-T%02d-L%02d", groupCode, stage, term, lessonNumber)
}

// ExplorerLessonCode formats the code of a lesson in the explorer group.
// The code depends only on the source path, not on the lesson number.
func ExplorerLessonCode(groupCode int, sourceRelativePath string) string {
	return fmt.Sprintf("G%02d-EXP-%s", groupCode, HashPath(sourceRelativePath))
}

// PathCode formats the code of the path for a stage.
func PathCode(stage int) string {
	return fmt.Sprintf("A%02d", stage)
}

// HashPath is the 32-bit rolling hash (h = h*31 + unit) over the UTF-16 code
// units of s, rendered as 8 lowercase hex digits. Stored explorer lesson codes
// depend on it, so it must not change. Distinct paths can collide.
func HashPath(s string) string {
	var h uint32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(unit)
	}
	return fmt.Sprintf("%08x", h)
}
