// Package render produces the generated HTML pages. Templates and syntax
// highlighting are external collaborators; this package only wires them.
package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
)

// Renderer is the template-rendering collaborator. Render writes the named
// template with the given context to outPath; TemplateDeps lists every file
// the template reads, for dependency tracking.
type Renderer interface {
	Render(name, outPath string, context map[string]any) error
	TemplateDeps(name string) ([]string, error)
}

// TemplateRenderer renders html/template files from a templates folder.
type TemplateRenderer struct {
	dir string
}

// NewTemplateRenderer creates a renderer over the given templates folder.
func NewTemplateRenderer(dir string) *TemplateRenderer {
	return &TemplateRenderer{dir: dir}
}

var templateRefRe = regexp.MustCompile(`\{\{-?\s*template\s+"([^"]+)"`)

// TemplateDeps returns the template file plus, transitively, every template
// file it references.
func (r *TemplateRenderer) TemplateDeps(name string) ([]string, error) {
	seen := map[string]struct{}{}
	var deps []string
	var visit func(name string) error
	visit = func(name string) error {
		path := filepath.Join(r.dir, name)
		if _, ok := seen[path]; ok {
			return nil
		}
		seen[path] = struct{}{}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", name, err)
		}
		deps = append(deps, path)

		for _, m := range templateRefRe.FindAllStringSubmatch(string(data), -1) {
			ref := m[1]
			if _, err := os.Stat(filepath.Join(r.dir, ref)); err != nil {
				// References that are not standalone files are defined
				// inline; nothing to track.
				continue
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(name); err != nil {
		return nil, err
	}
	return deps, nil
}

// Render parses the named template (with its referenced templates) and writes
// it to outPath, creating parent directories. Pre-rendered HTML values in the
// context must be template.HTML to survive escaping.
func (r *TemplateRenderer) Render(name, outPath string, context map[string]any) error {
	deps, err := r.TemplateDeps(name)
	if err != nil {
		return err
	}

	tmpl, err := template.New(name).Option("missingkey=error").ParseFiles(deps...)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := tmpl.ExecuteTemplate(f, name, context); err != nil {
		return fmt.Errorf("render template %s: %w", name, err)
	}
	return nil
}
