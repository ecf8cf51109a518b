package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"manuals-go/internal/database/migrations"
	"manuals-go/internal/manual"
	"manuals-go/internal/model"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDatabase implements the Database interface on PostgreSQL via pgx.
type PostgresDatabase struct {
	pool *pgxpool.Pool
	// sqlDB wraps pool for golang-migrate, which needs database/sql.
	sqlDB *sql.DB
}

// NewPostgresDatabase connects to dsn and pings the server.
func NewPostgresDatabase(ctx context.Context, dsn string) (*PostgresDatabase, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	return &PostgresDatabase{
		pool:  pool,
		sqlDB: stdlib.OpenDBFromPool(pool),
	}, nil
}

// runInTx runs fn inside a transaction and commits it when fn succeeds.
func (p *PostgresDatabase) runInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const pgGroupColumns = `id, code, name, is_explorer, created_at, updated_at, deleted_at`

func scanGroup(row pgx.Row) (*model.Group, error) {
	var g model.Group
	if err := row.Scan(&g.ID, &g.Code, &g.Name, &g.IsExplorer, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func pgFindGroup(ctx context.Context, q pgxQuerier, code int) (*model.Group, error) {
	g, err := scanGroup(q.QueryRow(ctx, `SELECT `+pgGroupColumns+` FROM "groups" WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

func (p *PostgresDatabase) FindGroupByCode(code int) (*model.Group, error) {
	g, err := pgFindGroup(context.Background(), p.pool, code)
	if err != nil {
		return nil, fmt.Errorf("finding group by code: %w", err)
	}
	return g, nil
}

func (p *PostgresDatabase) UpsertGroup(params model.GroupParams, now time.Time) (*model.Group, model.UpsertOutcome, error) {
	ctx := context.Background()
	var result *model.Group
	var outcome model.UpsertOutcome

	err := p.runInTx(ctx, func(tx pgx.Tx) error {
		existing, err := pgFindGroup(ctx, tx, params.Code)
		if err != nil {
			return fmt.Errorf("finding group: %w", err)
		}
		found := existing != nil
		outcome = upsertOutcome(found, found && existing.DeletedAt != nil, found && params.Matches(existing))

		switch outcome {
		case model.Unchanged:
			result = existing
			return nil
		case model.Created:
			result, err = scanGroup(tx.QueryRow(ctx,
				`INSERT INTO "groups" (code, name, is_explorer, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $4)
				 RETURNING `+pgGroupColumns,
				params.Code, params.Name, params.IsExplorer, now))
		default:
			result, err = scanGroup(tx.QueryRow(ctx,
				`UPDATE "groups" SET name = $1, is_explorer = $2, updated_at = $3, deleted_at = NULL
				 WHERE id = $4
				 RETURNING `+pgGroupColumns,
				params.Name, params.IsExplorer, now, existing.ID))
		}
		if err != nil {
			return fmt.Errorf("writing group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("upserting group %d: %w", params.Code, err)
	}
	return result, outcome, nil
}

func (p *PostgresDatabase) ListGroups() ([]*model.Group, error) {
	ctx := context.Background()
	rows, err := p.pool.Query(ctx, `SELECT `+pgGroupColumns+` FROM "groups" WHERE deleted_at IS NULL ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var result []*model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

const pgPathColumns = `id, code, name, created_at, updated_at, deleted_at`

func scanPath(row pgx.Row) (*model.Path, error) {
	var p model.Path
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func pgFindPath(ctx context.Context, q pgxQuerier, code string) (*model.Path, error) {
	p, err := scanPath(q.QueryRow(ctx, `SELECT `+pgPathColumns+` FROM paths WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (p *PostgresDatabase) FindPathByCode(code string) (*model.Path, error) {
	path, err := pgFindPath(context.Background(), p.pool, code)
	if err != nil {
		return nil, fmt.Errorf("finding path by code: %w", err)
	}
	return path, nil
}

func (p *PostgresDatabase) UpsertPath(params model.PathParams, now time.Time) (*model.Path, model.UpsertOutcome, error) {
	ctx := context.Background()
	var result *model.Path
	var outcome model.UpsertOutcome

	err := p.runInTx(ctx, func(tx pgx.Tx) error {
		existing, err := pgFindPath(ctx, tx, params.Code)
		if err != nil {
			return fmt.Errorf("finding path: %w", err)
		}
		found := existing != nil
		outcome = upsertOutcome(found, found && existing.DeletedAt != nil, found && params.Matches(existing))

		switch outcome {
		case model.Unchanged:
			result = existing
			return nil
		case model.Created:
			result, err = scanPath(tx.QueryRow(ctx,
				`INSERT INTO paths (code, name, created_at, updated_at)
				 VALUES ($1, $2, $3, $3)
				 RETURNING `+pgPathColumns,
				params.Code, params.Name, now))
		default:
			result, err = scanPath(tx.QueryRow(ctx,
				`UPDATE paths SET name = $1, updated_at = $2, deleted_at = NULL
				 WHERE id = $3
				 RETURNING `+pgPathColumns,
				params.Name, now, existing.ID))
		}
		if err != nil {
			return fmt.Errorf("writing path: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("upserting path %s: %w", params.Code, err)
	}
	return result, outcome, nil
}

const pgLessonColumns = `id, code, name, year, term, path_id, group_id, file_url, source_file_name, source_relative_path, created_at, updated_at, deleted_at`

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var l model.Lesson
	if err := row.Scan(
		&l.ID, &l.Code, &l.Name, &l.Year, &l.Term, &l.PathID, &l.GroupID,
		&l.FileURL, &l.SourceFileName, &l.SourceRelativePath,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func pgFindLesson(ctx context.Context, q pgxQuerier, code string) (*model.Lesson, error) {
	l, err := scanLesson(q.QueryRow(ctx, `SELECT `+pgLessonColumns+` FROM lessons WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (p *PostgresDatabase) FindLessonByCode(code string) (*model.Lesson, error) {
	l, err := pgFindLesson(context.Background(), p.pool, code)
	if err != nil {
		return nil, fmt.Errorf("finding lesson by code: %w", err)
	}
	return l, nil
}

func (p *PostgresDatabase) UpsertLesson(params model.LessonParams, now time.Time) (*model.Lesson, model.UpsertOutcome, error) {
	ctx := context.Background()
	var result *model.Lesson
	var outcome model.UpsertOutcome

	err := p.runInTx(ctx, func(tx pgx.Tx) error {
		existing, err := pgFindLesson(ctx, tx, params.Code)
		if err != nil {
			return fmt.Errorf("finding lesson: %w", err)
		}
		found := existing != nil
		outcome = upsertOutcome(found, found && existing.DeletedAt != nil, found && params.Matches(existing))

		switch outcome {
		case model.Unchanged:
			result = existing
			return nil
		case model.Created:
			result, err = scanLesson(tx.QueryRow(ctx,
				`INSERT INTO lessons (code, name, year, term, path_id, group_id,
				     file_url, source_file_name, source_relative_path, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
				 RETURNING `+pgLessonColumns,
				params.Code, params.Name, params.Year, params.Term, params.PathID, params.GroupID,
				params.FileURL, params.SourceFileName, params.SourceRelativePath, now))
		default:
			result, err = scanLesson(tx.QueryRow(ctx,
				`UPDATE lessons SET name = $1, year = $2, term = $3, path_id = $4, group_id = $5,
				     file_url = $6, source_file_name = $7, source_relative_path = $8,
				     updated_at = $9, deleted_at = NULL
				 WHERE id = $10
				 RETURNING `+pgLessonColumns,
				params.Name, params.Year, params.Term, params.PathID, params.GroupID,
				params.FileURL, params.SourceFileName, params.SourceRelativePath, now, existing.ID))
		}
		if err != nil {
			return fmt.Errorf("writing lesson: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("upserting lesson %s: %w", params.Code, err)
	}
	return result, outcome, nil
}

func (p *PostgresDatabase) ListLessons(groupCode int) ([]*model.Lesson, error) {
	ctx := context.Background()
	var rows pgx.Rows
	var err error
	if groupCode < 0 {
		rows, err = p.pool.Query(ctx,
			`SELECT `+pgLessonColumns+` FROM lessons WHERE deleted_at IS NULL ORDER BY code`)
	} else {
		rows, err = p.pool.Query(ctx,
			`SELECT `+pgLessonColumns+` FROM lessons
			 WHERE deleted_at IS NULL AND group_id = (SELECT id FROM "groups" WHERE code = $1)
			 ORDER BY code`, groupCode)
	}
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	defer rows.Close()

	var result []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (p *PostgresDatabase) SoftDeleteLesson(code string, now time.Time) (bool, error) {
	tag, err := p.pool.Exec(context.Background(),
		`UPDATE lessons SET deleted_at = $1, updated_at = $1 WHERE code = $2 AND deleted_at IS NULL`,
		now, code)
	if err != nil {
		return false, fmt.Errorf("deleting lesson %s: %w", code, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Run tracking

func (p *PostgresDatabase) CreateRun(run *model.Run) error {
	_, err := p.pool.Exec(context.Background(),
		`INSERT INTO runs (id, operation, parameters, started_at, status) VALUES ($1::text::uuid, $2, $3, $4, $5)`,
		run.ID, run.Operation, run.Parameters, run.StartedAt, run.Status)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}
	return nil
}

func (p *PostgresDatabase) FinishRun(id string, status string, finishedAt time.Time) error {
	_, err := p.pool.Exec(context.Background(),
		`UPDATE runs SET finished_at = $1, status = $2 WHERE id = $3::text::uuid`,
		finishedAt, status, id)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

func (p *PostgresDatabase) ListRuns(limit int) ([]*model.Run, error) {
	rows, err := p.pool.Query(context.Background(),
		`SELECT id::text, operation, parameters, started_at, finished_at, status
		 FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var result []*model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.Operation, &r.Parameters, &r.StartedAt, &r.FinishedAt, &r.Status); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		result = append(result, &r)
	}
	return result, rows.Err()
}

// Access seeding

func (p *PostgresDatabase) UpsertRole(name string, now time.Time) (*model.Role, error) {
	var r model.Role
	err := p.pool.QueryRow(context.Background(),
		`INSERT INTO roles (name, created_at, updated_at) VALUES ($1, $2, $2)
		 ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
		 RETURNING id, name, created_at, updated_at`, name, now).Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting role %s: %w", name, err)
	}
	return &r, nil
}

func (p *PostgresDatabase) UpsertPermission(resource, action string, permType int, now time.Time) (*model.Permission, error) {
	var perm model.Permission
	err := p.pool.QueryRow(context.Background(),
		`INSERT INTO permissions (resource, action, type, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (resource, action, type) DO UPDATE SET updated_at = EXCLUDED.updated_at
		 RETURNING id, resource, action, type, created_at, updated_at`, resource, action, permType, now).
		Scan(&perm.ID, &perm.Resource, &perm.Action, &perm.Type, &perm.CreatedAt, &perm.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting permission %s:%s: %w", resource, action, err)
	}
	return &perm, nil
}

func (p *PostgresDatabase) GrantPermission(roleID, permissionID int64) error {
	_, err := p.pool.Exec(context.Background(),
		`INSERT INTO role_has_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		roleID, permissionID)
	if err != nil {
		return fmt.Errorf("granting permission %d to role %d: %w", permissionID, roleID, err)
	}
	return nil
}

func (p *PostgresDatabase) CountRolePermissions(roleID int64) (int, error) {
	var n int
	err := p.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM role_has_permissions WHERE role_id = $1`, roleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting role permissions: %w", err)
	}
	return n, nil
}

// CheckMigrations verifies the database schema is up-to-date.
func (p *PostgresDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(p.sqlDB, migrations.Postgres)
}

// Migrate applies pending migrations.
func (p *PostgresDatabase) Migrate() error {
	return migrations.MigrateUp(p.sqlDB, migrations.Postgres)
}

// Close closes the sql.DB wrapper and the pool.
func (p *PostgresDatabase) Close() error {
	err := p.sqlDB.Close()
	p.pool.Close()
	return err
}

var _ manual.Database = (*PostgresDatabase)(nil)
