package manual

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const explorerGroupName = "exploradores"

var (
	groupNamePattern = regexp.MustCompile(`^(\d{2})\.(.+)$`)
	termDirPattern   = regexp.MustCompile(`(?i)^A(\d{2})\.([^.]+)\.trimestre(\d{2})$`)
	termLikePattern  = regexp.MustCompile(`(?i)\.trimestre`)
)

// GroupInfo is what a top-level directory name says about its group.
type GroupInfo struct {
	Code       int
	Name       string
	IsExplorer bool
}

// ParseGroupName parses "NN.Name". The group is the explorer catalog when the
// name, ignoring accents and case, is "exploradores".
func ParseGroupName(dirName string) (GroupInfo, error) {
	m := groupNamePattern.FindStringSubmatch(dirName)
	if m == nil {
		return GroupInfo{}, fmt.Errorf("%w: %s", ErrInvalidGroupName, dirName)
	}
	code, _ := strconv.Atoi(m[1])
	name := strings.TrimSpace(m[2])
	return GroupInfo{
		Code:       code,
		Name:       name,
		IsExplorer: NormalizeText(name) == explorerGroupName,
	}, nil
}

// TermInfo is what a term directory name says about its lessons.
type TermInfo struct {
	Stage    int // Also the lesson year
	PathCode string
	PathName string
	Term     int
}

// ParseTermDirectory parses "ANN.PathName.trimestreNN" and checks the
// stage is in [1,3] and the term in [1,4].
func ParseTermDirectory(dirName string) (TermInfo, error) {
	m := termDirPattern.FindStringSubmatch(dirName)
	if m == nil {
		return TermInfo{}, fmt.Errorf("%w: %s", ErrInvalidTermDirectory, dirName)
	}
	stage, _ := strconv.Atoi(m[1])
	term, _ := strconv.Atoi(m[3])

	if stage < 1 || stage > 3 {
		return TermInfo{}, fmt.Errorf("%w: year %d parsed from %s", ErrYearOutOfRange, stage, dirName)
	}
	if term < 1 || term > 4 {
		return TermInfo{}, fmt.Errorf("%w: term %d parsed from %s", ErrTermOutOfRange, term, dirName)
	}

	return TermInfo{
		Stage:    stage,
		PathCode: "A" + m[1],
		PathName: strings.TrimSpace(m[2]),
		Term:     term,
	}, nil
}

// isTermCandidate reports whether a directory name looks like it is meant to
// be a term directory, so that a malformed one fails loudly instead of being skipped.
func isTermCandidate(dirName string) bool {
	return termLikePattern.MatchString(dirName)
}

// collectDirectories returns every descendant of n (not n itself), pre-order,
// for which keep returns true.
func collectDirectories(n *DirectoryNode, keep func(*DirectoryNode) bool) []*DirectoryNode {
	var out []*DirectoryNode
	for _, child := range n.Directories {
		if keep(child) {
			out = append(out, child)
		}
		out = append(out, collectDirectories(child, keep)...)
	}
	return out
}

// collectPDFs returns every PDF under n at any depth, n's own files first.
func collectPDFs(n *DirectoryNode) []FileNode {
	var out []FileNode
	for _, f := range n.Files {
		if isPDF(f.Name) {
			out = append(out, f)
		}
	}
	for _, child := range n.Directories {
		out = append(out, collectPDFs(child)...)
	}
	return out
}

// LessonPlan is one lesson upsert, minus the store-assigned group and path IDs.
type LessonPlan struct {
	Code       string
	Name       string
	Number     int
	SourceFile FileNode
}

// TermPlan is the path and lessons derived from one term directory.
type TermPlan struct {
	Directory string // Relative path of the term directory
	TermInfo
	Lessons []LessonPlan
}

// GroupPlan is every upsert derived from one top-level directory.
// Regular groups fill Terms; the explorer group fills Lessons.
type GroupPlan struct {
	GroupInfo
	Terms   []TermPlan
	Lessons []LessonPlan
}

// PlanGroup validates a top-level directory and derives its upserts without
// touching the store. Any naming error aborts planning of the whole group.
func PlanGroup(node *DirectoryNode) (*GroupPlan, error) {
	info, err := ParseGroupName(node.Name)
	if err != nil {
		return nil, err
	}
	plan := &GroupPlan{GroupInfo: info}

	if info.IsExplorer {
		for _, nf := range AssignLessonNumbers(collectPDFs(node), ExtractExplorerLessonNumber) {
			plan.Lessons = append(plan.Lessons, LessonPlan{
				Code:       ExplorerLessonCode(info.Code, nf.File.RelativePath),
				Name:       lessonName(nf.File.Name),
				Number:     nf.Number,
				SourceFile: nf.File,
			})
		}
		return plan, nil
	}

	termDirs := collectDirectories(node, func(d *DirectoryNode) bool {
		return isTermCandidate(d.Name)
	})
	for _, dir := range termDirs {
		term, err := ParseTermDirectory(dir.Name)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", node.Name, err)
		}
		tp := TermPlan{Directory: dir.RelativePath, TermInfo: term}
		for _, nf := range AssignLessonNumbers(collectPDFs(dir), ExtractRegularLessonNumber) {
			tp.Lessons = append(tp.Lessons, LessonPlan{
				Code:       RegularLessonCode(info.Code, term.Stage, term.Term, nf.Number),
				Name:       lessonName(nf.File.Name),
				Number:     nf.Number,
				SourceFile: nf.File,
			})
		}
		plan.Terms = append(plan.Terms, tp)
	}
	return plan, nil
}
