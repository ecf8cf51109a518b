package manual

import (
	"time"

	"manuals-go/internal/model"
)

// Store is the capability the importer needs: create-or-update by unique code.
// Each upsert clears deleted_at. When the stored record already holds the given
// field values and is not soft-deleted, the upsert is a no-op and reports
// model.Unchanged. now stamps created_at/updated_at.
type Store interface {
	UpsertGroup(params model.GroupParams, now time.Time) (*model.Group, model.UpsertOutcome, error)
	UpsertPath(params model.PathParams, now time.Time) (*model.Path, model.UpsertOutcome, error)
	UpsertLesson(params model.LessonParams, now time.Time) (*model.Lesson, model.UpsertOutcome, error)
}

// Database provides the full set of metadata storage operations used by the CLI.
// Finders return nil and no error when the record does not exist.
type Database interface {
	Store

	// Group, path and lesson lookups. Finders by code include soft-deleted records.

	FindGroupByCode(code int) (*model.Group, error)
	FindPathByCode(code string) (*model.Path, error)
	FindLessonByCode(code string) (*model.Lesson, error)

	// ListGroups returns non-deleted groups ordered by code.
	ListGroups() ([]*model.Group, error)

	// ListLessons returns non-deleted lessons ordered by code.
	// A groupCode below zero lists lessons of every group.
	ListLessons(groupCode int) ([]*model.Lesson, error)

	// SoftDeleteLesson stamps deleted_at on a lesson. Returns false if no
	// non-deleted lesson has the code.
	SoftDeleteLesson(code string, now time.Time) (bool, error)

	// Run tracking

	CreateRun(run *model.Run) error
	FinishRun(id string, status string, finishedAt time.Time) error
	ListRuns(limit int) ([]*model.Run, error)

	// Access seeding

	UpsertRole(name string, now time.Time) (*model.Role, error)
	UpsertPermission(resource, action string, permType int, now time.Time) (*model.Permission, error)
	GrantPermission(roleID, permissionID int64) error
	CountRolePermissions(roleID int64) (int, error)

	// CheckMigrations verifies the schema is at the latest version.
	CheckMigrations() error

	// Migrate applies pending migrations.
	Migrate() error

	// Close closes the database connection.
	Close() error
}
