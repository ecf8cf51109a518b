package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"manuals-go/internal/config"
	"manuals-go/internal/model"
)

// newPostgresTestDB starts PostgreSQL in a container and returns a migrated database.
// Skipped unless TEST_INTEGRATION is set.
func newPostgresTestDB(t *testing.T) *PostgresDatabase {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("manuals_test"),
		postgres.WithUsername("manuals"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "starting postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := NewDatabaseFromConfig(ctx, config.DatabaseConfig{
		Type:        "postgres",
		DSN:         dsn,
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pg, ok := db.(*PostgresDatabase)
	require.True(t, ok, "expected *PostgresDatabase, got %T", db)
	return pg
}

func TestPostgresDatabase_Integration(t *testing.T) {
	db := newPostgresTestDB(t)

	require.NoError(t, db.CheckMigrations())

	t.Run("group upsert outcomes", func(t *testing.T) {
		g, outcome, err := db.UpsertGroup(model.GroupParams{Code: 1, Name: "Kids"}, t0)
		require.NoError(t, err)
		assert.Equal(t, model.Created, outcome)

		same, outcome, err := db.UpsertGroup(model.GroupParams{Code: 1, Name: "Kids"}, t1)
		require.NoError(t, err)
		assert.Equal(t, model.Unchanged, outcome)
		assert.Equal(t, g.ID, same.ID)
		assert.True(t, same.UpdatedAt.Equal(t0))

		renamed, outcome, err := db.UpsertGroup(model.GroupParams{Code: 1, Name: "Niños"}, t2)
		require.NoError(t, err)
		assert.Equal(t, model.Updated, outcome)
		assert.Equal(t, "Niños", renamed.Name)
	})

	t.Run("lesson lifecycle", func(t *testing.T) {
		g, err := db.FindGroupByCode(1)
		require.NoError(t, err)
		require.NotNil(t, g)

		p, _, err := db.UpsertPath(model.PathParams{Code: "A01", Name: "Inicial"}, t0)
		require.NoError(t, err)

		params := lessonParams("01-A01-T1-L01", g.ID)
		params.PathID = &p.ID

		_, outcome, err := db.UpsertLesson(params, t0)
		require.NoError(t, err)
		assert.Equal(t, model.Created, outcome)

		_, outcome, err = db.UpsertLesson(params, t1)
		require.NoError(t, err)
		assert.Equal(t, model.Unchanged, outcome)

		lessons, err := db.ListLessons(1)
		require.NoError(t, err)
		assert.Len(t, lessons, 1)

		deleted, err := db.SoftDeleteLesson(params.Code, t1)
		require.NoError(t, err)
		assert.True(t, deleted)

		revived, outcome, err := db.UpsertLesson(params, t2)
		require.NoError(t, err)
		assert.Equal(t, model.Updated, outcome)
		assert.Nil(t, revived.DeletedAt)
	})

	t.Run("runs", func(t *testing.T) {
		run := &model.Run{ID: "33333333-3333-3333-3333-333333333333", Operation: "import", StartedAt: t0, Status: "running"}
		require.NoError(t, db.CreateRun(run))
		require.NoError(t, db.FinishRun(run.ID, "success", t1))

		runs, err := db.ListRuns(5)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, run.ID, runs[0].ID)
		assert.Equal(t, "success", runs[0].Status)
	})

	t.Run("access seeding is idempotent", func(t *testing.T) {
		role, err := db.UpsertRole("ADMIN", t0)
		require.NoError(t, err)
		perm, err := db.UpsertPermission("manuals", "read", 0, t0)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			require.NoError(t, db.GrantPermission(role.ID, perm.ID))
		}
		again, err := db.UpsertRole("ADMIN", t1)
		require.NoError(t, err)
		assert.Equal(t, role.ID, again.ID)
		assert.True(t, again.CreatedAt.Equal(t0))
		assert.True(t, again.UpdatedAt.Equal(t1), "re-seeding refreshes updated_at")

		n, err := db.CountRolePermissions(role.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
