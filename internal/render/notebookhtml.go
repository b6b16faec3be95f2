package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/exbuilder/internal/notebook"
)

// Markdown cells may carry raw <img> tags with inline data URIs after
// embedding; rendering must pass them through.
var markdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// NotebookHTML converts a cached, self-contained notebook into the listing
// body: markdown cells through the markdown renderer, code cells through the
// highlighter.
func NotebookHTML(nb *notebook.Notebook) (string, error) {
	var sb strings.Builder
	for i, cell := range nb.Cells {
		if cell.IsMarkdown() {
			sb.WriteString(`<div class="cell markdown-cell">` + "\n")
			if err := markdown.Convert([]byte(cell.Text()), &sb); err != nil {
				return "", fmt.Errorf("render markdown cell %d: %w", i, err)
			}
		} else {
			sb.WriteString(`<div class="cell code-cell">` + "\n")
			code, err := HighlightCode([]byte(cell.Text()))
			if err != nil {
				return "", fmt.Errorf("render code cell %d: %w", i, err)
			}
			sb.WriteString(code)
		}
		sb.WriteString("</div>\n")
	}
	return sb.String(), nil
}
