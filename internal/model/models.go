package model

import "time"

// Group is a top-level curriculum cohort, either a regular (year/term) group
// or the explorer catalog group.
type Group struct {
	ID         int64
	Code       int    // 2-digit code parsed from the directory name, unique
	Name       string // Max 255 characters
	IsExplorer bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time // Soft delete marker, cleared by every import
}

// Path is a curriculum track within a stage, keyed by "A" + 2-digit stage.
type Path struct {
	ID        int64
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Lesson is one importable PDF resource.
// Year, Term and PathID are nil for explorer lessons.
type Lesson struct {
	ID                 int64
	Code               string
	Name               string
	Year               *int
	Term               *int
	PathID             *int64
	GroupID            int64
	FileURL            string
	SourceFileName     string
	SourceRelativePath string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

// Run records a CLI operation that mutated the database.
type Run struct {
	ID         string // UUID
	Operation  string
	Parameters string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string // "running", "success" or "error"
}

// Role is a named set of permissions. Seeding refreshes UpdatedAt.
type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Permission grants an action on a resource.
type Permission struct {
	ID        int64
	Resource  string
	Action    string
	Type      int
	CreatedAt time.Time
	UpdatedAt time.Time
}
