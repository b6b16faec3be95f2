// Package notebook reads, rewrites and caches structured notebook documents.
//
// A notebook on disk is UTF-8 JSON with a top-level "cells" array. Only the
// fields this package works with are modelled explicitly; everything else is
// carried through untouched so the cache copy stays a faithful notebook.
package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MarkdownCellType identifies descriptive-text cells. Every other cell type
// is treated as executable code.
const MarkdownCellType = "markdown"

// Notebook is an ordered tree of cells plus any top-level fields the format
// defines that this tool does not interpret.
type Notebook struct {
	Cells []Cell

	extra map[string]json.RawMessage
}

// Cell is one notebook cell. Attachments map filename -> mime type -> base64
// payload.
type Cell struct {
	Type        string
	Source      []string
	Attachments map[string]map[string]string

	extra map[string]json.RawMessage
}

// IsMarkdown reports whether the cell holds descriptive text.
func (c *Cell) IsMarkdown() bool { return c.Type == MarkdownCellType }

// Text returns the cell's source joined into a single string.
func (c *Cell) Text() string { return strings.Join(c.Source, "") }

// UnmarshalJSON keeps unknown top-level fields in an opaque side table.
func (nb *Notebook) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cellsRaw, ok := raw["cells"]
	if !ok {
		return fmt.Errorf("notebook has no cells array")
	}
	if err := json.Unmarshal(cellsRaw, &nb.Cells); err != nil {
		return fmt.Errorf("parse cells: %w", err)
	}
	delete(raw, "cells")
	nb.extra = raw
	return nil
}

// MarshalJSON reassembles the notebook including carried-through fields.
func (nb *Notebook) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(nb.extra)+1)
	for k, v := range nb.extra {
		out[k] = v
	}
	out["cells"] = nb.Cells
	return json.Marshal(out)
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["cell_type"]; ok {
		if err := json.Unmarshal(v, &c.Type); err != nil {
			return fmt.Errorf("parse cell_type: %w", err)
		}
		delete(raw, "cell_type")
	}
	if v, ok := raw["source"]; ok {
		if err := unmarshalSource(v, &c.Source); err != nil {
			return err
		}
		delete(raw, "source")
	}
	if v, ok := raw["attachments"]; ok {
		if err := json.Unmarshal(v, &c.Attachments); err != nil {
			return fmt.Errorf("parse attachments: %w", err)
		}
		delete(raw, "attachments")
	}
	c.extra = raw
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.extra)+3)
	for k, v := range c.extra {
		out[k] = v
	}
	out["cell_type"] = c.Type
	out["source"] = c.Source
	if c.Attachments != nil {
		out["attachments"] = c.Attachments
	}
	return json.Marshal(out)
}

// unmarshalSource accepts both source spellings the format allows: a list of
// lines or a single string.
func unmarshalSource(data json.RawMessage, dst *[]string) error {
	if err := json.Unmarshal(data, dst); err == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse source: %w", err)
	}
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	*dst = lines
	return nil
}

// Parse reads a notebook document.
func Parse(r io.Reader) (*Notebook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("parse notebook: %w", err)
	}
	return &nb, nil
}

// ParseFile reads a notebook document from disk.
func ParseFile(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nb, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Clone returns a deep copy, so transforms can rewrite cells without touching
// the original.
func (nb *Notebook) Clone() (*Notebook, error) {
	data, err := json.Marshal(nb)
	if err != nil {
		return nil, fmt.Errorf("clone notebook: %w", err)
	}
	var out Notebook
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone notebook: %w", err)
	}
	return &out, nil
}

// WriteFile serializes the notebook to path, creating parent directories. An
// existing file with identical content is left untouched so its modification
// time still reflects the last real change.
func (nb *Notebook) WriteFile(path string) error {
	data, err := json.Marshal(nb)
	if err != nil {
		return fmt.Errorf("serialize notebook: %w", err)
	}
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write notebook cache: %w", err)
	}
	return nil
}

// CachePath derives the cache location for a rewritten notebook.
func CachePath(cacheRoot, destFolder, category, name string) string {
	return filepath.Join(cacheRoot, destFolder, category, name)
}

// Summary returns the first line of the first markdown cell with heading
// markers stripped, or "" when the notebook has no descriptive cell.
func (nb *Notebook) Summary() string {
	for _, cell := range nb.Cells {
		if !cell.IsMarkdown() || len(cell.Source) == 0 {
			continue
		}
		line := cell.Source[0]
		if idx := strings.IndexByte(line, '\n'); idx >= 0 {
			line = line[:idx]
		}
		return strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
	}
	return ""
}
