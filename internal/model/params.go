package model

// GroupParams identifies a group by Code and carries its mutable fields.
// The same set is written on create and on update.
type GroupParams struct {
	Code       int
	Name       string
	IsExplorer bool
}

// Matches reports whether g already holds exactly these field values.
func (p GroupParams) Matches(g *Group) bool {
	return g.Code == p.Code && g.Name == p.Name && g.IsExplorer == p.IsExplorer
}

// PathParams identifies a path by Code and carries its mutable fields.
type PathParams struct {
	Code string
	Name string
}

// Matches reports whether p2 already holds exactly these field values.
func (p PathParams) Matches(p2 *Path) bool {
	return p2.Code == p.Code && p2.Name == p.Name
}

// LessonParams identifies a lesson by Code and carries its mutable fields.
type LessonParams struct {
	Code               string
	Name               string
	Year               *int
	Term               *int
	PathID             *int64
	GroupID            int64
	FileURL            string
	SourceFileName     string
	SourceRelativePath string
}

// Matches reports whether l already holds exactly these field values.
func (p LessonParams) Matches(l *Lesson) bool {
	return l.Code == p.Code &&
		l.Name == p.Name &&
		equalPtr(l.Year, p.Year) &&
		equalPtr(l.Term, p.Term) &&
		equalPtr(l.PathID, p.PathID) &&
		l.GroupID == p.GroupID &&
		l.FileURL == p.FileURL &&
		l.SourceFileName == p.SourceFileName &&
		l.SourceRelativePath == p.SourceRelativePath
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// UpsertOutcome reports what an upsert did to the stored record.
type UpsertOutcome int

const (
	Unchanged UpsertOutcome = iota
	Created
	Updated
)

func (o UpsertOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}
