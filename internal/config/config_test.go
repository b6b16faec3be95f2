package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
folders:
  - source: samples/python
    dest: examples/python
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Site.DefaultLang)
	assert.Equal(t, "output", cfg.Site.OutputFolder)
	assert.Equal(t, "cache", cfg.Site.CacheFolder)
	assert.Equal(t, "index.html", cfg.Site.IndexFile)
	assert.Equal(t, "templates", cfg.Site.TemplatesFolder)
	assert.Equal(t, ".exbuilder/state.db", cfg.StateFile)
}

func TestLoadRejectsDuplicateFolderPaths(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate source",
			yaml: `
folders:
  - source: samples/python
    dest: examples/python
  - source: samples/python
    dest: examples/jupyter
`,
		},
		{
			name: "duplicate dest",
			yaml: `
folders:
  - source: samples/python
    dest: examples/python
  - source: other/python
    dest: examples/python
`,
		},
		{
			name: "source equals another dest",
			yaml: `
folders:
  - source: examples/python
    dest: examples/jupyter
  - source: samples/python
    dest: examples/python
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "more than one mapping")
		})
	}
}

func TestLoadRejectsMissingFolders(t *testing.T) {
	_, err := Load(writeConfig(t, `site: {title: X}`))
	require.Error(t, err)
}

func TestLoadRejectsInvalidLang(t *testing.T) {
	_, err := Load(writeConfig(t, `
site:
  default_lang: "not a lang tag!!"
folders:
  - source: samples/python
    dest: examples/python
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_lang")
}

func TestLoadRejectsSourceWithoutURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
source:
  branch: main
folders:
  - source: samples/python
    dest: examples/python
`))
	require.Error(t, err)
}

func TestSnapshotIsDeterministic(t *testing.T) {
	path := writeConfig(t, `
site:
  title: Demo
folders:
  - source: samples/python
    dest: examples/python
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	a, err := cfg.Snapshot()
	require.NoError(t, err)
	b, err := cfg.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg.Site.Title = "Changed"
	c, err := cfg.Snapshot()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
