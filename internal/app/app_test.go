package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuals-go/internal/config"
	"manuals-go/internal/manual"
	"manuals-go/internal/seed"
)

// newTestConfig returns a config rooted in a temp dir and makes that dir the
// working directory, so snapshot relative paths are predictable.
func newTestConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	base := t.TempDir()
	t.Chdir(base)

	cfg := config.NewConfig(base)
	cfg.LogLevel = "ERROR"
	cfg.Vault.FSVaultRoot = filepath.Join(base, "vault")
	return cfg, base
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("%PDF"), 0644))
	}
}

func newTestApp(t *testing.T, cfg *config.Config, operation string) *ManualsApp {
	t.Helper()
	a, err := NewManualsApp(cfg, operation)
	require.NoError(t, err)
	return a
}

func TestManualsApp_MapAndImport(t *testing.T) {
	cfg, base := newTestConfig(t)
	writeTree(t, base,
		"Manuales/01.Kids/A01.Inicial.trimestre01/S1 Bienvenida.pdf",
		"Manuales/01.Kids/A01.Inicial.trimestre01/S2 Amistad.pdf",
		"Manuales/01.Kids/A01.Inicial.trimestre01/notas.txt",
		"Manuales/02.Exploradores/LECCIÓN 1 Fogata.pdf",
	)

	mapper := newTestApp(t, cfg, "map")
	schema, key, err := mapper.MapDirectory("Manuales", "")
	require.NoError(t, err)
	require.NoError(t, mapper.Close())

	assert.Equal(t, config.DefaultSchemaPath, key)
	assert.Equal(t, "Manuales", schema.Root.RelativePath)
	assert.Equal(t, manual.Totals{Directories: 4, LeafDirectories: 2, Files: 4}, *schema.Totals)
	assert.FileExists(t, filepath.Join(cfg.Vault.FSVaultRoot, filepath.FromSlash(config.DefaultSchemaPath)))

	first := newTestApp(t, cfg, "import")
	summary, err := first.ImportManuals("", "https://cdn.example.com/")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Groups.Created)
	assert.Equal(t, 1, summary.Paths.Created)
	assert.Equal(t, 3, summary.Lessons.Created)

	lessons, err := first.ListLessons(1)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "G01-A01-T01-L01", lessons[0].Code)
	assert.Equal(t, "https://cdn.example.com/Manuales/01.Kids/A01.Inicial.trimestre01/S1%20Bienvenida.pdf", lessons[0].FileURL)
	require.NoError(t, first.Close())

	second := newTestApp(t, cfg, "import")
	summary, err = second.ImportManuals("", "https://cdn.example.com/")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Groups.Unchanged)
	assert.Equal(t, 1, summary.Paths.Unchanged)
	assert.Equal(t, 3, summary.Lessons.Unchanged)
	assert.Zero(t, summary.Lessons.Created+summary.Lessons.Updated)
	require.NoError(t, second.Close())

	viewer := newTestApp(t, cfg, "history")
	defer viewer.Close()
	runs, err := viewer.GetHistory(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "import", r.Operation)
		assert.Equal(t, StatusSuccess, r.Status)
		assert.NotNil(t, r.FinishedAt)
	}

	groups, err := viewer.ListGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.True(t, groups[1].IsExplorer)
}

func TestManualsApp_ImportBaseURLFromEnv(t *testing.T) {
	cfg, base := newTestConfig(t)
	writeTree(t, base, "Manuales/01.Kids/A01.Inicial.trimestre01/S1 Bienvenida.pdf")
	t.Setenv(BaseURLEnv, "https://env.example.com")

	a := newTestApp(t, cfg, "import")
	defer a.Close()
	_, _, err := a.MapDirectory("Manuales", "")
	require.NoError(t, err)
	_, err = a.ImportManuals("", "")
	require.NoError(t, err)

	lessons, err := a.ListLessons(-1)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "https://env.example.com/Manuales/01.Kids/A01.Inicial.trimestre01/S1%20Bienvenida.pdf", lessons[0].FileURL)
}

func TestManualsApp_ImportFailureIsRecorded(t *testing.T) {
	cfg, base := newTestConfig(t)
	writeTree(t, base, "Manuales/Kids/S1.pdf")

	a := newTestApp(t, cfg, "import")
	_, _, err := a.MapDirectory("Manuales", "")
	require.NoError(t, err)

	_, err = a.ImportManuals("", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, manual.ErrInvalidGroupName), "got %v", err)
	require.NoError(t, a.Close())

	viewer := newTestApp(t, cfg, "history")
	defer viewer.Close()
	runs, err := viewer.GetHistory(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusError, runs[0].Status)
}

func TestManualsApp_MapMissingInput(t *testing.T) {
	cfg, _ := newTestConfig(t)

	a := newTestApp(t, cfg, "map")
	defer a.Close()

	require.NoError(t, os.WriteFile("manual.pdf", []byte("%PDF-1.4"), 0644))

	for _, input := range []string{"does-not-exist", "manual.pdf"} {
		t.Run(input, func(t *testing.T) {
			_, _, err := a.MapDirectory(input, "")
			assert.True(t, errors.Is(err, manual.ErrNotADirectory), "got %v", err)
			assert.NoFileExists(t, filepath.Join(cfg.Vault.FSVaultRoot, filepath.FromSlash(config.DefaultSchemaPath)))
		})
	}
}

func TestManualsApp_Seed(t *testing.T) {
	cfg, _ := newTestConfig(t)
	want := len(seed.Resources) * len(seed.Actions)

	for i := 0; i < 2; i++ {
		a := newTestApp(t, cfg, "seed")
		res, granted, err := a.Seed()
		require.NoError(t, err)
		assert.Equal(t, seed.AdminRole, res.Role.Name)
		assert.Equal(t, want, res.Permissions)
		assert.Equal(t, want, granted, "seeding twice must not duplicate grants")
		require.NoError(t, a.Close())
	}
}

func TestManualsApp_DeleteLesson(t *testing.T) {
	cfg, base := newTestConfig(t)
	writeTree(t, base, "Manuales/01.Kids/A01.Inicial.trimestre01/S1 Bienvenida.pdf")

	a := newTestApp(t, cfg, "import")
	_, _, err := a.MapDirectory("Manuales", "")
	require.NoError(t, err)
	_, err = a.ImportManuals("", "")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	del := newTestApp(t, cfg, "delete")
	require.NoError(t, del.DeleteLesson("G01-A01-T01-L01"))
	lessons, err := del.ListLessons(-1)
	require.NoError(t, err)
	assert.Empty(t, lessons)
	assert.Error(t, del.DeleteLesson("G01-A01-T01-L01"), "deleting twice reports not found")
	require.NoError(t, del.Close())

	// The next import heals the deletion.
	heal := newTestApp(t, cfg, "import")
	defer heal.Close()
	summary, err := heal.ImportManuals("", "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Lessons.Updated)
}

func TestManualsApp_DatabaseLifecycle(t *testing.T) {
	cfg, base := newTestConfig(t)
	cfg.Database.AutoMigrate = false

	a := newTestApp(t, cfg, "status")
	defer a.Close()

	assert.Error(t, a.DatabaseStatus(), "fresh database needs migration")
	_, err := a.ListGroups()
	assert.Error(t, err, "catalog commands refuse an unmigrated database")

	require.NoError(t, a.MigrateDatabase())
	require.NoError(t, a.DatabaseStatus())

	dest := filepath.Join(base, "backup.db")
	require.NoError(t, a.BackupDatabase(dest))
	assert.FileExists(t, dest)
}
