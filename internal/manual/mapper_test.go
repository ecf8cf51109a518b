package manual_test

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuals-go/internal/fs"
	"manuals-go/internal/manual"
	"manuals-go/internal/testutil"
)

func names(dirs []*manual.DirectoryNode) []string {
	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[i] = d.Name
	}
	return out
}

func fileNames(files []manual.FileNode) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestMapper_Map(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/data/Manuales/02.Teens/A01.Fe.trimestre01/S2.pdf", nil)
	fsmgr.AddFile("/data/Manuales/02.Teens/A01.Fe.trimestre01/S1.pdf", nil)
	fsmgr.AddFile("/data/Manuales/01.Kids/ñandú.pdf", nil)
	fsmgr.AddFile("/data/Manuales/01.Kids/nube.pdf", nil)
	fsmgr.AddFile("/data/Manuales/01.Kids/oso.pdf", nil)
	fsmgr.AddDirectory("/data/Manuales/03.Vacio")
	fsmgr.AddSymlink("/data/Manuales/01.Kids/enlace.pdf")
	fsmgr.AddFile("/data/Manuales/indice.txt", nil)

	m := manual.NewMapper(fsmgr, nil, manual.NewNopLogger())
	schema, err := m.Map("/data/Manuales", "/data")
	require.NoError(t, err)

	root := schema.Root
	assert.Equal(t, "Manuales", root.Name)
	assert.Equal(t, "Manuales", root.RelativePath)
	assert.Equal(t, []string{"01.Kids", "02.Teens", "03.Vacio"}, names(root.Directories))
	assert.Equal(t, []string{"indice.txt"}, fileNames(root.Files))

	kids := root.Directories[0]
	assert.Equal(t, "Manuales/01.Kids", kids.RelativePath)
	assert.Equal(t, []string{"nube.pdf", "ñandú.pdf", "oso.pdf"}, fileNames(kids.Files), "Spanish order, symlink skipped")
	assert.Equal(t, "Manuales/01.Kids/ñandú.pdf", kids.Files[1].RelativePath)
	assert.NotNil(t, kids.Directories)
	assert.Empty(t, kids.Directories)

	term := root.Directories[1].Directories[0]
	assert.Equal(t, []string{"S1.pdf", "S2.pdf"}, fileNames(term.Files))

	assert.Equal(t, manual.Totals{Directories: 5, LeafDirectories: 3, Files: 6}, *schema.Totals)
}

func TestMapper_BaseIsInput(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/data/Manuales/01.Kids/a.pdf", nil)

	schema, err := manual.NewMapper(fsmgr, nil, manual.NewNopLogger()).Map("/data/Manuales", "/data/Manuales")
	require.NoError(t, err)

	assert.Equal(t, ".", schema.Root.RelativePath)
	assert.Equal(t, "01.Kids/a.pdf", schema.Root.Directories[0].Files[0].RelativePath)
}

func TestMapper_Ignore(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/data/Manuales/01.Kids/S1.pdf", nil)
	fsmgr.AddFile("/data/Manuales/01.Kids/borrador.log", nil)
	fsmgr.AddFile("/data/Manuales/borradores/S9.pdf", nil)

	ignore := fs.NewIgnoreMatcher([]string{"*.log", "borradores/"})
	schema, err := manual.NewMapper(fsmgr, ignore, manual.NewNopLogger()).Map("/data/Manuales", "/data")
	require.NoError(t, err)

	assert.Equal(t, []string{"01.Kids"}, names(schema.Root.Directories))
	assert.Equal(t, []string{"S1.pdf"}, fileNames(schema.Root.Directories[0].Files))
	assert.Equal(t, 1, schema.Totals.Files)
}

func TestMapper_NotADirectory(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/data/archivo.pdf", nil)
	m := manual.NewMapper(fsmgr, nil, manual.NewNopLogger())

	for _, input := range []string{"/data/missing", "/data/archivo.pdf"} {
		t.Run(input, func(t *testing.T) {
			_, err := m.Map(input, "/data")
			assert.True(t, errors.Is(err, manual.ErrNotADirectory), "got %v", err)
		})
	}
}

// countingFS records the order and concurrency of ReadDir calls.
type countingFS struct {
	manual.FilesystemManager
	mu      sync.Mutex
	active  int
	peak    int
	visited []string
	fail    map[string]bool
}

func (c *countingFS) ReadDir(p *manual.Path) ([]iofs.DirEntry, error) {
	c.mu.Lock()
	c.active++
	if c.active > c.peak {
		c.peak = c.active
	}
	c.visited = append(c.visited, p.String())
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.active--
		c.mu.Unlock()
	}()

	if c.fail[p.String()] {
		return nil, fmt.Errorf("permission denied")
	}
	return c.FilesystemManager.ReadDir(p)
}

func TestMapper_WalksSequentiallyInOrder(t *testing.T) {
	mock := testutil.NewMockFilesystemManager()
	for _, g := range []string{"02.Teens", "01.Kids", "03.Jóvenes"} {
		for _, term := range []string{"A02.Esperanza.trimestre01", "A01.Fe.trimestre01"} {
			for _, f := range []string{"S2.pdf", "S1.pdf"} {
				mock.AddFile("/data/"+g+"/"+term+"/"+f, nil)
			}
		}
	}
	cfs := &countingFS{FilesystemManager: mock}

	_, err := manual.NewMapper(cfs, nil, manual.NewNopLogger()).Map("/data", "/data")
	require.NoError(t, err)

	assert.Equal(t, 1, cfs.peak, "directories are read one at a time")
	assert.Equal(t, []string{
		"/data",
		"/data/01.Kids",
		"/data/01.Kids/A01.Fe.trimestre01",
		"/data/01.Kids/A02.Esperanza.trimestre01",
		"/data/02.Teens",
		"/data/02.Teens/A01.Fe.trimestre01",
		"/data/02.Teens/A02.Esperanza.trimestre01",
		"/data/03.Jóvenes",
		"/data/03.Jóvenes/A01.Fe.trimestre01",
		"/data/03.Jóvenes/A02.Esperanza.trimestre01",
	}, cfs.visited)
}

func TestMapper_ReportsFirstFailingDirectory(t *testing.T) {
	mock := testutil.NewMockFilesystemManager()
	for _, g := range []string{"01.Kids", "02.Teens", "03.Jóvenes"} {
		mock.AddFile("/data/"+g+"/S1.pdf", nil)
	}
	cfs := &countingFS{
		FilesystemManager: mock,
		fail:              map[string]bool{"/data/02.Teens": true, "/data/03.Jóvenes": true},
	}

	_, err := manual.NewMapper(cfs, nil, manual.NewNopLogger()).Map("/data", "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/data/02.Teens")
	assert.NotContains(t, cfs.visited, "/data/03.Jóvenes", "the walk stops at the first error")
}
