package manual_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuals-go/internal/manual"
)

func TestParseGroupName(t *testing.T) {
	tests := []struct {
		in      string
		want    manual.GroupInfo
		wantErr error
	}{
		{in: "05.Pioneros", want: manual.GroupInfo{Code: 5, Name: "Pioneros"}},
		{in: "01. Kids ", want: manual.GroupInfo{Code: 1, Name: "Kids"}},
		{in: "99.Exploradores", want: manual.GroupInfo{Code: 99, Name: "Exploradores", IsExplorer: true}},
		{in: "07.EXPLORADÓRES", want: manual.GroupInfo{Code: 7, Name: "EXPLORADÓRES", IsExplorer: true}},
		{in: "08.Exploradores Jr", want: manual.GroupInfo{Code: 8, Name: "Exploradores Jr"}},
		{in: "5.Pioneros", wantErr: manual.ErrInvalidGroupName},
		{in: "Pioneros", wantErr: manual.ErrInvalidGroupName},
		{in: "123.Pioneros", wantErr: manual.ErrInvalidGroupName},
		{in: "05.", wantErr: manual.ErrInvalidGroupName},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := manual.ParseGroupName(tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTermDirectory(t *testing.T) {
	tests := []struct {
		in      string
		want    manual.TermInfo
		wantErr error
	}{
		{in: "A01.Fe.trimestre01", want: manual.TermInfo{Stage: 1, PathCode: "A01", PathName: "Fe", Term: 1}},
		{in: "a03.Servicio.TRIMESTRE04", want: manual.TermInfo{Stage: 3, PathCode: "A03", PathName: "Servicio", Term: 4}},
		{in: "A00.Fe.trimestre01", wantErr: manual.ErrYearOutOfRange},
		{in: "A04.Fe.trimestre01", wantErr: manual.ErrYearOutOfRange},
		{in: "A01.Fe.trimestre00", wantErr: manual.ErrTermOutOfRange},
		{in: "A01.Fe.trimestre05", wantErr: manual.ErrTermOutOfRange},
		{in: "A4.Fe.trimestreXX", wantErr: manual.ErrInvalidTermDirectory},
		{in: "A01.Fe.Bis.trimestre01", wantErr: manual.ErrInvalidTermDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := manual.ParseTermDirectory(tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// groupNode builds a group directory whose term directories hold the given files.
func groupNode(name string, terms map[string][]string) *manual.DirectoryNode {
	g := &manual.DirectoryNode{Name: name, RelativePath: name}
	for termName, fileNames := range terms {
		td := &manual.DirectoryNode{Name: termName, RelativePath: name + "/" + termName}
		for _, f := range fileNames {
			td.Files = append(td.Files, manual.FileNode{Name: f, RelativePath: td.RelativePath + "/" + f})
		}
		g.Directories = append(g.Directories, td)
	}
	return g
}

func TestPlanGroup_Regular(t *testing.T) {
	node := groupNode("05.Pioneros", map[string][]string{
		"A01.Fe.trimestre01": {"S2 continua.pdf", "S1 intro.pdf", "notas.docx"},
	})

	plan, err := manual.PlanGroup(node)
	require.NoError(t, err)

	assert.Equal(t, 5, plan.Code)
	assert.False(t, plan.IsExplorer)
	require.Len(t, plan.Terms, 1)

	term := plan.Terms[0]
	assert.Equal(t, "A01", term.PathCode)
	assert.Equal(t, "Fe", term.PathName)
	require.Len(t, term.Lessons, 2, "non-PDF files are skipped")
	assert.Equal(t, "G05-A01-T01-L01", term.Lessons[0].Code)
	assert.Equal(t, "S1 intro", term.Lessons[0].Name)
	assert.Equal(t, "G05-A01-T01-L02", term.Lessons[1].Code)
}

func TestPlanGroup_NestedDirectories(t *testing.T) {
	// Term directories may sit at any depth; PDFs below a term directory
	// belong to it at any depth; directories without ".trimestre" are only walked.
	term := &manual.DirectoryNode{
		Name:         "A02.Luz.trimestre03",
		RelativePath: "06.Guias/Extra/A02.Luz.trimestre03",
		Files:        []manual.FileNode{{Name: "S1.pdf", RelativePath: "06.Guias/Extra/A02.Luz.trimestre03/S1.pdf"}},
		Directories: []*manual.DirectoryNode{{
			Name:         "anexos",
			RelativePath: "06.Guias/Extra/A02.Luz.trimestre03/anexos",
			Files:        []manual.FileNode{{Name: "S2.PDF", RelativePath: "06.Guias/Extra/A02.Luz.trimestre03/anexos/S2.PDF"}},
		}},
	}
	node := &manual.DirectoryNode{
		Name:         "06.Guias",
		RelativePath: "06.Guias",
		Files:        []manual.FileNode{{Name: "S9 suelto.pdf", RelativePath: "06.Guias/S9 suelto.pdf"}},
		Directories: []*manual.DirectoryNode{{
			Name:         "Extra",
			RelativePath: "06.Guias/Extra",
			Directories:  []*manual.DirectoryNode{term},
		}},
	}

	plan, err := manual.PlanGroup(node)
	require.NoError(t, err)
	require.Len(t, plan.Terms, 1)

	var codes []string
	for _, l := range plan.Terms[0].Lessons {
		codes = append(codes, l.Code)
	}
	assert.Equal(t, []string{"G06-A02-T03-L01", "G06-A02-T03-L02"}, codes)
}

func TestPlanGroup_Explorer(t *testing.T) {
	node := &manual.DirectoryNode{
		Name:         "99.Exploradores",
		RelativePath: "99.Exploradores",
		Files: []manual.FileNode{
			{Name: "leccion-3.pdf", RelativePath: "leccion-3.pdf"},
			{Name: "portada.png", RelativePath: "portada.png"},
		},
	}

	plan, err := manual.PlanGroup(node)
	require.NoError(t, err)

	assert.True(t, plan.IsExplorer)
	assert.Empty(t, plan.Terms)
	require.Len(t, plan.Lessons, 1)
	assert.Equal(t, "G99-EXP-9a85ab39", plan.Lessons[0].Code)
	assert.Equal(t, 3, plan.Lessons[0].Number)
}

func TestPlanGroup_MalformedTermDirectory(t *testing.T) {
	node := groupNode("05.Pioneros", map[string][]string{
		"A4.Fe.trimestreXX": {"S1.pdf"},
	})

	_, err := manual.PlanGroup(node)
	assert.True(t, errors.Is(err, manual.ErrInvalidTermDirectory), "got %v", err)
}

func TestPlanGroup_InvalidGroupName(t *testing.T) {
	_, err := manual.PlanGroup(&manual.DirectoryNode{Name: "Pioneros", RelativePath: "Pioneros"})
	assert.True(t, errors.Is(err, manual.ErrInvalidGroupName), "got %v", err)
}
