package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestTemplateDepsFollowReferences(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "base.tmpl", `<html>{{block "body" .}}{{end}}</html>`)
	writeTemplate(t, dir, "examples.tmpl", `{{template "base.tmpl" .}}{{template "inline" .}}`)

	r := NewTemplateRenderer(dir)
	deps, err := r.TemplateDeps("examples.tmpl")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "examples.tmpl"),
		filepath.Join(dir, "base.tmpl"),
	}, deps)
}

func TestTemplateDepsMissingTemplate(t *testing.T) {
	r := NewTemplateRenderer(t.TempDir())
	_, err := r.TemplateDeps("examples.tmpl")
	require.Error(t, err)
}

func TestRenderWritesOutput(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "examples.tmpl",
		`<h1>{{index . "title"}}</h1><div>{{index . "code"}}</div>`)

	out := filepath.Join(t.TempDir(), "nested", "page.html")
	r := NewTemplateRenderer(dir)
	err := r.Render("examples.tmpl", out, map[string]any{
		"title": "ex1.py",
		"code":  "plain",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<h1>ex1.py</h1><div>plain</div>", string(data))
}

func TestHighlightNeverFailsOnUnknownInput(t *testing.T) {
	out, err := Highlight("mystery.zzz", []byte("completely unremarkable text"))
	require.NoError(t, err)
	assert.Contains(t, out, "completely unremarkable text")
}

func TestHighlightKnownFilename(t *testing.T) {
	out, err := Highlight("demo.py", []byte("def f():\n    return 1\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "def")
}

func TestHighlightDialect(t *testing.T) {
	out, err := HighlightDialect([]byte("x = zeros(3);\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "zeros")
}
