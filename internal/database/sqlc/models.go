// Row types, one per table in schema.sql.

package sqlc

import (
	"database/sql"
	"time"
)

type Group struct {
	ID         int64
	Code       int64
	Name       string
	IsExplorer bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  sql.NullTime
}

type Lesson struct {
	ID                 int64
	Code               string
	Name               string
	Year               sql.NullInt64
	Term               sql.NullInt64
	PathID             sql.NullInt64
	GroupID            int64
	FileUrl            string
	SourceFileName     string
	SourceRelativePath string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          sql.NullTime
}

type Path struct {
	ID        int64
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt sql.NullTime
}

type Permission struct {
	ID        int64
	Resource  string
	Action    string
	Type      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RoleHasPermission struct {
	RoleID       int64
	PermissionID int64
}

type Run struct {
	ID         string
	Operation  string
	Parameters string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string
}
