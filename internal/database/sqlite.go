package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"manuals-go/internal/database/migrations"
	"manuals-go/internal/database/sqlc"
	"manuals-go/internal/manual"
	"manuals-go/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; for ":memory:" a second connection would also
	// see a second, empty database.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// withTx runs fn in a transaction and commits it when fn succeeds.
func (s *SQLiteDatabase) withTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Group operations

func (s *SQLiteDatabase) FindGroupByCode(code int) (*model.Group, error) {
	g, err := s.queries.GetGroupByCode(context.Background(), int64(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding group by code: %w", err)
	}
	return groupFromRow(g), nil
}

// UpsertGroup creates the group or brings it in line with params.
func (s *SQLiteDatabase) UpsertGroup(params model.GroupParams, now time.Time) (*model.Group, model.UpsertOutcome, error) {
	ctx := context.Background()
	var result *model.Group
	var outcome model.UpsertOutcome

	err := s.withTx(ctx, func(q *sqlc.Queries) error {
		current, err := q.GetGroupByCode(ctx, int64(params.Code))
		found := err == nil
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("finding group: %w", err)
		}

		var existing *model.Group
		if found {
			existing = groupFromRow(current)
		}
		outcome = upsertOutcome(found, found && existing.DeletedAt != nil, found && params.Matches(existing))

		switch outcome {
		case model.Unchanged:
			result = existing
			return nil
		case model.Created:
			_, err = q.InsertGroup(ctx, sqlc.InsertGroupParams{
				Code:       int64(params.Code),
				Name:       params.Name,
				IsExplorer: params.IsExplorer,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		default:
			err = q.UpdateGroup(ctx, sqlc.UpdateGroupParams{
				Name:       params.Name,
				IsExplorer: params.IsExplorer,
				UpdatedAt:  now,
				ID:         current.ID,
			})
		}
		if err != nil {
			return fmt.Errorf("writing group: %w", err)
		}

		row, err := q.GetGroupByCode(ctx, int64(params.Code))
		if err != nil {
			return fmt.Errorf("reloading group: %w", err)
		}
		result = groupFromRow(row)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("upserting group %d: %w", params.Code, err)
	}
	return result, outcome, nil
}

func (s *SQLiteDatabase) ListGroups() ([]*model.Group, error) {
	rows, err := s.queries.ListGroups(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	result := make([]*model.Group, len(rows))
	for i := range rows {
		result[i] = groupFromRow(rows[i])
	}
	return result, nil
}

// Path operations

func (s *SQLiteDatabase) FindPathByCode(code string) (*model.Path, error) {
	p, err := s.queries.GetPathByCode(context.Background(), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding path by code: %w", err)
	}
	return pathFromRow(p), nil
}

// UpsertPath creates the path or brings it in line with params.
func (s *SQLiteDatabase) UpsertPath(params model.PathParams, now time.Time) (*model.Path, model.UpsertOutcome, error) {
	ctx := context.Background()
	var result *model.Path
	var outcome model.UpsertOutcome

	err := s.withTx(ctx, func(q *sqlc.Queries) error {
		current, err := q.GetPathByCode(ctx, params.Code)
		found := err == nil
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("finding path: %w", err)
		}

		var existing *model.Path
		if found {
			existing = pathFromRow(current)
		}
		outcome = upsertOutcome(found, found && existing.DeletedAt != nil, found && params.Matches(existing))

		switch outcome {
		case model.Unchanged:
			result = existing
			return nil
		case model.Created:
			_, err = q.InsertPath(ctx, sqlc.InsertPathParams{
				Code:      params.Code,
				Name:      params.Name,
				CreatedAt: now,
				UpdatedAt: now,
			})
		default:
			err = q.UpdatePath(ctx, sqlc.UpdatePathParams{
				Name:      params.Name,
				UpdatedAt: now,
				ID:        current.ID,
			})
		}
		if err != nil {
			return fmt.Errorf("writing path: %w", err)
		}

		row, err := q.GetPathByCode(ctx, params.Code)
		if err != nil {
			return fmt.Errorf("reloading path: %w", err)
		}
		result = pathFromRow(row)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("upserting path %s: %w", params.Code, err)
	}
	return result, outcome, nil
}

// Lesson operations

func (s *SQLiteDatabase) FindLessonByCode(code string) (*model.Lesson, error) {
	l, err := s.queries.GetLessonByCode(context.Background(), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding lesson by code: %w", err)
	}
	return lessonFromRow(l), nil
}

// UpsertLesson creates the lesson or brings it in line with params.
func (s *SQLiteDatabase) UpsertLesson(params model.LessonParams, now time.Time) (*model.Lesson, model.UpsertOutcome, error) {
	ctx := context.Background()
	var result *model.Lesson
	var outcome model.UpsertOutcome

	err := s.withTx(ctx, func(q *sqlc.Queries) error {
		current, err := q.GetLessonByCode(ctx, params.Code)
		found := err == nil
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("finding lesson: %w", err)
		}

		var existing *model.Lesson
		if found {
			existing = lessonFromRow(current)
		}
		outcome = upsertOutcome(found, found && existing.DeletedAt != nil, found && params.Matches(existing))

		switch outcome {
		case model.Unchanged:
			result = existing
			return nil
		case model.Created:
			_, err = q.InsertLesson(ctx, sqlc.InsertLessonParams{
				Code:               params.Code,
				Name:               params.Name,
				Year:               toNullInt(params.Year),
				Term:               toNullInt(params.Term),
				PathID:             toNullInt64(params.PathID),
				GroupID:            params.GroupID,
				FileUrl:            params.FileURL,
				SourceFileName:     params.SourceFileName,
				SourceRelativePath: params.SourceRelativePath,
				CreatedAt:          now,
				UpdatedAt:          now,
			})
		default:
			err = q.UpdateLesson(ctx, sqlc.UpdateLessonParams{
				Name:               params.Name,
				Year:               toNullInt(params.Year),
				Term:               toNullInt(params.Term),
				PathID:             toNullInt64(params.PathID),
				GroupID:            params.GroupID,
				FileUrl:            params.FileURL,
				SourceFileName:     params.SourceFileName,
				SourceRelativePath: params.SourceRelativePath,
				UpdatedAt:          now,
				ID:                 current.ID,
			})
		}
		if err != nil {
			return fmt.Errorf("writing lesson: %w", err)
		}

		row, err := q.GetLessonByCode(ctx, params.Code)
		if err != nil {
			return fmt.Errorf("reloading lesson: %w", err)
		}
		result = lessonFromRow(row)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("upserting lesson %s: %w", params.Code, err)
	}
	return result, outcome, nil
}

func (s *SQLiteDatabase) ListLessons(groupCode int) ([]*model.Lesson, error) {
	ctx := context.Background()
	var rows []sqlc.Lesson
	var err error
	if groupCode < 0 {
		rows, err = s.queries.ListLessons(ctx)
	} else {
		rows, err = s.queries.ListLessonsByGroupCode(ctx, int64(groupCode))
	}
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	result := make([]*model.Lesson, len(rows))
	for i := range rows {
		result[i] = lessonFromRow(rows[i])
	}
	return result, nil
}

func (s *SQLiteDatabase) SoftDeleteLesson(code string, now time.Time) (bool, error) {
	n, err := s.queries.SoftDeleteLesson(context.Background(), sqlc.SoftDeleteLessonParams{
		DeletedAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt: now,
		Code:      code,
	})
	if err != nil {
		return false, fmt.Errorf("deleting lesson %s: %w", code, err)
	}
	return n > 0, nil
}

// Run tracking

func (s *SQLiteDatabase) CreateRun(run *model.Run) error {
	err := s.queries.InsertRun(context.Background(), sqlc.InsertRunParams{
		ID:         run.ID,
		Operation:  run.Operation,
		Parameters: run.Parameters,
		StartedAt:  run.StartedAt,
		Status:     run.Status,
	})
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FinishRun(id string, status string, finishedAt time.Time) error {
	err := s.queries.FinishRun(context.Background(), sqlc.FinishRunParams{
		FinishedAt: sql.NullTime{Time: finishedAt, Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListRuns(limit int) ([]*model.Run, error) {
	rows, err := s.queries.ListRuns(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	result := make([]*model.Run, len(rows))
	for i := range rows {
		result[i] = runFromRow(rows[i])
	}
	return result, nil
}

// Access seeding

func (s *SQLiteDatabase) UpsertRole(name string, now time.Time) (*model.Role, error) {
	ctx := context.Background()
	var role sqlc.Role
	err := s.withTx(ctx, func(q *sqlc.Queries) error {
		if err := q.UpsertRole(ctx, sqlc.UpsertRoleParams{
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		var err error
		role, err = q.GetRoleByName(ctx, name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upserting role %s: %w", name, err)
	}
	return &model.Role{
		ID:        role.ID,
		Name:      role.Name,
		CreatedAt: role.CreatedAt,
		UpdatedAt: role.UpdatedAt,
	}, nil
}

func (s *SQLiteDatabase) UpsertPermission(resource, action string, permType int, now time.Time) (*model.Permission, error) {
	ctx := context.Background()
	var perm sqlc.Permission
	err := s.withTx(ctx, func(q *sqlc.Queries) error {
		if err := q.UpsertPermission(ctx, sqlc.UpsertPermissionParams{
			Resource:  resource,
			Action:    action,
			Type:      int64(permType),
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		var err error
		perm, err = q.GetPermission(ctx, sqlc.GetPermissionParams{
			Resource: resource,
			Action:   action,
			Type:     int64(permType),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upserting permission %s:%s: %w", resource, action, err)
	}
	return &model.Permission{
		ID:        perm.ID,
		Resource:  perm.Resource,
		Action:    perm.Action,
		Type:      int(perm.Type),
		CreatedAt: perm.CreatedAt,
		UpdatedAt: perm.UpdatedAt,
	}, nil
}

func (s *SQLiteDatabase) GrantPermission(roleID, permissionID int64) error {
	err := s.queries.GrantPermission(context.Background(), sqlc.GrantPermissionParams{
		RoleID:       roleID,
		PermissionID: permissionID,
	})
	if err != nil {
		return fmt.Errorf("granting permission %d to role %d: %w", permissionID, roleID, err)
	}
	return nil
}

// CountRolePermissions returns how many permissions are granted to a role.
func (s *SQLiteDatabase) CountRolePermissions(roleID int64) (int, error) {
	n, err := s.queries.CountRolePermissions(context.Background(), roleID)
	if err != nil {
		return 0, fmt.Errorf("counting role permissions: %w", err)
	}
	return int(n), nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db, migrations.SQLite)
}

// Migrate applies pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db, migrations.SQLite)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ manual.Database = (*SQLiteDatabase)(nil)
