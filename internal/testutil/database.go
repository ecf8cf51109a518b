package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"manuals-go/internal/database"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	require.NoError(t, err, "opening database")

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		require.NoError(t, err, "applying schema")
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
