package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exbuilder/internal/notebook"
)

func TestNotebookHTML(t *testing.T) {
	nb, err := notebook.Parse(strings.NewReader(`{"cells": [
		{"cell_type": "markdown", "source": ["# Heading\n", "Body with <img src=\"data:image/png;base64,AAAA\"/> inline\n"]},
		{"cell_type": "code", "source": ["print('hi')\n"]}
	]}`))
	require.NoError(t, err)

	out, err := NotebookHTML(nb)
	require.NoError(t, err)

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "markdown-cell")
	assert.Contains(t, out, "code-cell")
	// Raw img tags with data URIs must pass through the markdown renderer.
	assert.Contains(t, out, "data:image/png;base64,AAAA")
	assert.Contains(t, out, "print")
}
