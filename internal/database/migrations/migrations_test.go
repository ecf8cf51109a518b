package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	require.NoError(t, MigrateUp(db, SQLite))

	tables := []string{"groups", "paths", "lessons", "runs", "roles", "permissions", "role_has_permissions", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s was not created", table)
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	err := CheckDBMigrationStatus(db, SQLite)
	require.Error(t, err)
	assert.EqualError(t, err, "database has no schema version (needs migration)")
}

func TestCheckDBMigrationStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	require.NoError(t, MigrateUp(db, SQLite))
	assert.NoError(t, CheckDBMigrationStatus(db, SQLite))
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	require.NoError(t, MigrateUp(db, SQLite))
	assert.NoError(t, MigrateUp(db, SQLite), "second run should be a no-op")
	assert.NoError(t, CheckDBMigrationStatus(db, SQLite))
}

func TestLatestVersion(t *testing.T) {
	sqliteVersion, err := LatestVersion(SQLite)
	require.NoError(t, err)
	pgVersion, err := LatestVersion(Postgres)
	require.NoError(t, err)

	assert.Equal(t, uint(3), sqliteVersion)
	assert.Equal(t, uint(3), pgVersion)

	_, err = LatestVersion(Dialect("mysql"))
	assert.Error(t, err)
}

func TestForeignKeyConstraints(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	require.NoError(t, MigrateUp(db, SQLite))

	// Lesson pointing at a group that does not exist
	_, err := db.Exec(`
		INSERT INTO lessons (code, name, group_id, file_url, source_file_name, source_relative_path, created_at, updated_at)
		VALUES ('G01-A01-T01-L01', 'S1', 999, '', 'S1.pdf', 'x/S1.pdf', datetime('now'), datetime('now'))
	`)
	assert.Error(t, err, "expected foreign key constraint violation")
}

func TestSchema_GroupCodeUnique(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	require.NoError(t, MigrateUp(db, SQLite))

	insert := `INSERT INTO "groups" (code, name, created_at, updated_at) VALUES (1, ?, datetime('now'), datetime('now'))`
	_, err := db.Exec(insert, "Pioneros")
	require.NoError(t, err)
	_, err = db.Exec(insert, "Otro")
	assert.Error(t, err, "expected unique constraint violation for duplicate code")
}

func TestSchema_PermissionTripleUnique(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	require.NoError(t, MigrateUp(db, SQLite))

	insert := `INSERT INTO permissions (resource, action, type, created_at, updated_at) VALUES ('explorers', 'read', 0, datetime('now'), datetime('now'))`
	_, err := db.Exec(insert)
	require.NoError(t, err)
	_, err = db.Exec(insert)
	assert.Error(t, err, "expected unique constraint violation for duplicate permission")
}

// openTestDB opens an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	return db
}
