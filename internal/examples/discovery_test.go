package examples

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exbuilder/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestKindFromDest(t *testing.T) {
	tests := []struct {
		dest string
		want Kind
	}{
		{"examples/python", KindScript},
		{"examples/jupyter", KindNotebook},
		{"examples/matlab", KindDialect},
	}
	for _, tt := range tests {
		kind, err := KindFromDest(tt.dest)
		require.NoError(t, err)
		assert.Equal(t, tt.want, kind)
	}

	_, err := KindFromDest("examples/fortran")
	require.Error(t, err)
}

func TestDiscoverFolderNaturalSort(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"ex10.py", "ex1.py", "ex2.py", "Zebra.py", "alpha.py"} {
		writeFile(t, filepath.Join(root, "samples", "thermo", name), "")
	}

	d := NewDiscovery(root)
	folder, err := d.DiscoverFolder(config.FolderMapping{Source: "samples", Dest: "examples/python"})
	require.NoError(t, err)

	require.Len(t, folder.Categories, 1)
	cat := folder.Categories[0]
	assert.Equal(t, "thermo", cat.Key)
	assert.Equal(t, "Thermodynamics", cat.Name)
	// Numeric runs sort naturally and case does not reorder names.
	assert.Equal(t, []string{"alpha.py", "ex1.py", "ex2.py", "ex10.py", "Zebra.py"}, cat.Files)
}

func TestDiscoverFolderFilters(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "samples", "kinetics")
	writeFile(t, filepath.Join(base, "good.py"), "")
	writeFile(t, filepath.Join(base, "stale.pyc"), "")
	writeFile(t, filepath.Join(base, "data.dat"), "")
	writeFile(t, filepath.Join(base, ".hidden.py"), "")
	writeFile(t, filepath.Join(base, ".DS_Store"), "")
	writeFile(t, filepath.Join(base, "notes.txt"), "")
	writeFile(t, filepath.Join(root, "samples", ".ipynb_checkpoints", "x.py"), "")

	d := NewDiscovery(root)
	folder, err := d.DiscoverFolder(config.FolderMapping{Source: "samples", Dest: "examples/python"})
	require.NoError(t, err)

	require.Len(t, folder.Categories, 1)
	assert.Equal(t, []string{"good.py"}, folder.Categories[0].Files)
}

func TestDiscoverFlatDialectFolder(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "mat")
	writeFile(t, filepath.Join(base, "reactor1.m"), "")
	writeFile(t, filepath.Join(base, "tut_intro.m"), "")
	writeFile(t, filepath.Join(base, "run_tests.m"), "")
	writeFile(t, filepath.Join(base, "README"), "")

	d := NewDiscovery(root)
	folder, err := d.DiscoverFolder(config.FolderMapping{Source: "mat", Dest: "examples/matlab"})
	require.NoError(t, err)

	require.Len(t, folder.Categories, 1)
	cat := folder.Categories[0]
	assert.Equal(t, "examples", cat.Key)
	assert.Equal(t, []string{"reactor1.m"}, cat.Files)
}

func TestRelFilesAndCategoryKeys(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "samples", "thermo", "a.py"), "")
	writeFile(t, filepath.Join(root, "samples", "kinetics", "b.py"), "")

	d := NewDiscovery(root)
	folder, err := d.DiscoverFolder(config.FolderMapping{Source: "samples", Dest: "examples/python"})
	require.NoError(t, err)

	assert.Equal(t, []string{"kinetics", "thermo"}, folder.CategoryKeys())
	assert.Equal(t, []string{"kinetics/b.py", "thermo/a.py"}, folder.RelFiles())
}

func TestDiscoverFolderMissingSource(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.DiscoverFolder(config.FolderMapping{Source: "nope", Dest: "examples/python"})
	require.Error(t, err)
}
