// Statements and wrappers for queries.sql. Keep both files in sync.

package sqlc

import (
	"context"
	"database/sql"
	"time"
)

const countRolePermissions = `-- name: CountRolePermissions :one
SELECT COUNT(*) FROM role_has_permissions WHERE role_id = ?
`

func (q *Queries) CountRolePermissions(ctx context.Context, roleID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRolePermissions, roleID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const finishRun = `-- name: FinishRun :exec
UPDATE runs SET finished_at = ?, status = ? WHERE id = ?
`

type FinishRunParams struct {
	FinishedAt sql.NullTime
	Status     string
	ID         string
}

func (q *Queries) FinishRun(ctx context.Context, arg FinishRunParams) error {
	_, err := q.db.ExecContext(ctx, finishRun, arg.FinishedAt, arg.Status, arg.ID)
	return err
}

const getGroupByCode = `-- name: GetGroupByCode :one
SELECT id, code, name, is_explorer, created_at, updated_at, deleted_at FROM "groups" WHERE code = ?
`

func (q *Queries) GetGroupByCode(ctx context.Context, code int64) (Group, error) {
	row := q.db.QueryRowContext(ctx, getGroupByCode, code)
	var i Group
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.IsExplorer,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const getLessonByCode = `-- name: GetLessonByCode :one
SELECT id, code, name, year, term, path_id, group_id, file_url, source_file_name, source_relative_path, created_at, updated_at, deleted_at FROM lessons WHERE code = ?
`

func (q *Queries) GetLessonByCode(ctx context.Context, code string) (Lesson, error) {
	row := q.db.QueryRowContext(ctx, getLessonByCode, code)
	var i Lesson
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.Year,
		&i.Term,
		&i.PathID,
		&i.GroupID,
		&i.FileUrl,
		&i.SourceFileName,
		&i.SourceRelativePath,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const getPathByCode = `-- name: GetPathByCode :one
SELECT id, code, name, created_at, updated_at, deleted_at FROM paths WHERE code = ?
`

func (q *Queries) GetPathByCode(ctx context.Context, code string) (Path, error) {
	row := q.db.QueryRowContext(ctx, getPathByCode, code)
	var i Path
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const getPermission = `-- name: GetPermission :one
SELECT id, resource, action, type, created_at, updated_at FROM permissions WHERE resource = ? AND action = ? AND type = ?
`

type GetPermissionParams struct {
	Resource string
	Action   string
	Type     int64
}

func (q *Queries) GetPermission(ctx context.Context, arg GetPermissionParams) (Permission, error) {
	row := q.db.QueryRowContext(ctx, getPermission, arg.Resource, arg.Action, arg.Type)
	var i Permission
	err := row.Scan(
		&i.ID,
		&i.Resource,
		&i.Action,
		&i.Type,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getRoleByName = `-- name: GetRoleByName :one
SELECT id, name, created_at, updated_at FROM roles WHERE name = ?
`

func (q *Queries) GetRoleByName(ctx context.Context, name string) (Role, error) {
	row := q.db.QueryRowContext(ctx, getRoleByName, name)
	var i Role
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const grantPermission = `-- name: GrantPermission :exec
INSERT INTO role_has_permissions (role_id, permission_id)
VALUES (?, ?)
ON CONFLICT DO NOTHING
`

type GrantPermissionParams struct {
	RoleID       int64
	PermissionID int64
}

func (q *Queries) GrantPermission(ctx context.Context, arg GrantPermissionParams) error {
	_, err := q.db.ExecContext(ctx, grantPermission, arg.RoleID, arg.PermissionID)
	return err
}

const insertGroup = `-- name: InsertGroup :execlastid
INSERT INTO "groups" (code, name, is_explorer, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertGroupParams struct {
	Code       int64
	Name       string
	IsExplorer bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) InsertGroup(ctx context.Context, arg InsertGroupParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertGroup,
		arg.Code,
		arg.Name,
		arg.IsExplorer,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const insertLesson = `-- name: InsertLesson :execlastid
INSERT INTO lessons (
    code, name, year, term, path_id, group_id,
    file_url, source_file_name, source_relative_path,
    created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertLessonParams struct {
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
}

func (q *Queries) InsertLesson(ctx context.Context, arg InsertLessonParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertLesson,
		arg.Code,
		arg.Name,
		arg.Year,
		arg.Term,
		arg.PathID,
		arg.GroupID,
		arg.FileUrl,
		arg.SourceFileName,
		arg.SourceRelativePath,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const insertPath = `-- name: InsertPath :execlastid
INSERT INTO paths (code, name, created_at, updated_at)
VALUES (?, ?, ?, ?)
`

type InsertPathParams struct {
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) InsertPath(ctx context.Context, arg InsertPathParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertPath,
		arg.Code,
		arg.Name,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const upsertPermission = `-- name: UpsertPermission :exec
INSERT INTO permissions (resource, action, type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (resource, action, type) DO UPDATE SET updated_at = excluded.updated_at
`

type UpsertPermissionParams struct {
	Resource  string
	Action    string
	Type      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) UpsertPermission(ctx context.Context, arg UpsertPermissionParams) error {
	_, err := q.db.ExecContext(ctx, upsertPermission,
		arg.Resource,
		arg.Action,
		arg.Type,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const upsertRole = `-- name: UpsertRole :exec
INSERT INTO roles (name, created_at, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET updated_at = excluded.updated_at
`

type UpsertRoleParams struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) UpsertRole(ctx context.Context, arg UpsertRoleParams) error {
	_, err := q.db.ExecContext(ctx, upsertRole, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const insertRun = `-- name: InsertRun :exec
INSERT INTO runs (id, operation, parameters, started_at, status)
VALUES (?, ?, ?, ?, ?)
`

type InsertRunParams struct {
	ID         string
	Operation  string
	Parameters string
	StartedAt  time.Time
	Status     string
}

func (q *Queries) InsertRun(ctx context.Context, arg InsertRunParams) error {
	_, err := q.db.ExecContext(ctx, insertRun,
		arg.ID,
		arg.Operation,
		arg.Parameters,
		arg.StartedAt,
		arg.Status,
	)
	return err
}

const listGroups = `-- name: ListGroups :many
SELECT id, code, name, is_explorer, created_at, updated_at, deleted_at FROM "groups" WHERE deleted_at IS NULL ORDER BY code
`

func (q *Queries) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := q.db.QueryContext(ctx, listGroups)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Group
	for rows.Next() {
		var i Group
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Name,
			&i.IsExplorer,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.DeletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listLessons = `-- name: ListLessons :many
SELECT id, code, name, year, term, path_id, group_id, file_url, source_file_name, source_relative_path, created_at, updated_at, deleted_at FROM lessons WHERE deleted_at IS NULL ORDER BY code
`

func (q *Queries) ListLessons(ctx context.Context) ([]Lesson, error) {
	rows, err := q.db.QueryContext(ctx, listLessons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Lesson
	for rows.Next() {
		var i Lesson
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Name,
			&i.Year,
			&i.Term,
			&i.PathID,
			&i.GroupID,
			&i.FileUrl,
			&i.SourceFileName,
			&i.SourceRelativePath,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.DeletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listLessonsByGroupCode = `-- name: ListLessonsByGroupCode :many
SELECT lessons.id, lessons.code, lessons.name, lessons.year, lessons.term, lessons.path_id, lessons.group_id, lessons.file_url, lessons.source_file_name, lessons.source_relative_path, lessons.created_at, lessons.updated_at, lessons.deleted_at FROM lessons
JOIN "groups" ON "groups".id = lessons.group_id
WHERE "groups".code = ? AND lessons.deleted_at IS NULL
ORDER BY lessons.code
`

func (q *Queries) ListLessonsByGroupCode(ctx context.Context, code int64) ([]Lesson, error) {
	rows, err := q.db.QueryContext(ctx, listLessonsByGroupCode, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Lesson
	for rows.Next() {
		var i Lesson
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Name,
			&i.Year,
			&i.Term,
			&i.PathID,
			&i.GroupID,
			&i.FileUrl,
			&i.SourceFileName,
			&i.SourceRelativePath,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.DeletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRuns = `-- name: ListRuns :many
SELECT id, operation, parameters, started_at, finished_at, status FROM runs ORDER BY started_at DESC LIMIT ?
`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.Operation,
			&i.Parameters,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Status,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const softDeleteLesson = `-- name: SoftDeleteLesson :execrows
UPDATE lessons
SET deleted_at = ?, updated_at = ?
WHERE code = ? AND deleted_at IS NULL
`

type SoftDeleteLessonParams struct {
	DeletedAt sql.NullTime
	UpdatedAt time.Time
	Code      string
}

func (q *Queries) SoftDeleteLesson(ctx context.Context, arg SoftDeleteLessonParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, softDeleteLesson, arg.DeletedAt, arg.UpdatedAt, arg.Code)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateGroup = `-- name: UpdateGroup :exec
UPDATE "groups"
SET name = ?, is_explorer = ?, updated_at = ?, deleted_at = NULL
WHERE id = ?
`

type UpdateGroupParams struct {
	Name       string
	IsExplorer bool
	UpdatedAt  time.Time
	ID         int64
}

func (q *Queries) UpdateGroup(ctx context.Context, arg UpdateGroupParams) error {
	_, err := q.db.ExecContext(ctx, updateGroup,
		arg.Name,
		arg.IsExplorer,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const updateLesson = `-- name: UpdateLesson :exec
UPDATE lessons
SET name = ?, year = ?, term = ?, path_id = ?, group_id = ?,
    file_url = ?, source_file_name = ?, source_relative_path = ?,
    updated_at = ?, deleted_at = NULL
WHERE id = ?
`

type UpdateLessonParams struct {
	Name               string
	Year               sql.NullInt64
	Term               sql.NullInt64
	PathID             sql.NullInt64
	GroupID            int64
	FileUrl            string
	SourceFileName     string
	SourceRelativePath string
	UpdatedAt          time.Time
	ID                 int64
}

func (q *Queries) UpdateLesson(ctx context.Context, arg UpdateLessonParams) error {
	_, err := q.db.ExecContext(ctx, updateLesson,
		arg.Name,
		arg.Year,
		arg.Term,
		arg.PathID,
		arg.GroupID,
		arg.FileUrl,
		arg.SourceFileName,
		arg.SourceRelativePath,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const updatePath = `-- name: UpdatePath :exec
UPDATE paths
SET name = ?, updated_at = ?, deleted_at = NULL
WHERE id = ?
`

type UpdatePathParams struct {
	Name      string
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdatePath(ctx context.Context, arg UpdatePathParams) error {
	_, err := q.db.ExecContext(ctx, updatePath, arg.Name, arg.UpdatedAt, arg.ID)
	return err
}
