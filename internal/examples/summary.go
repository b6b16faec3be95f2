package examples

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/exbuilder/internal/logfields"
)

// Summary extraction is best-effort: a file without a usable summary lists
// with an empty description, it is never excluded.

var docstringOpen = regexp.MustCompile(`^[rRuUbBfF]{0,2}("""|'''|"|')`)

// ScriptSummary extracts the first paragraph of a script's module docstring.
// A trailing period is enforced. Returns "" when no docstring is found.
func ScriptSummary(src []byte) string {
	lines := strings.Split(string(src), "\n")
	i := 0
	for ; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		break
	}
	if i >= len(lines) {
		return ""
	}

	first := strings.TrimSpace(lines[i])
	m := docstringOpen.FindStringSubmatch(first)
	if m == nil {
		return ""
	}
	delim := m[1]
	rest := first[strings.Index(first, delim)+len(delim):]

	var body string
	if idx := strings.Index(rest, delim); idx >= 0 {
		body = rest[:idx]
	} else if len(delim) == 1 {
		// Unterminated single-quoted string; not a docstring we can use.
		return ""
	} else {
		collected := []string{rest}
		for j := i + 1; j < len(lines); j++ {
			if idx := strings.Index(lines[j], delim); idx >= 0 {
				collected = append(collected, lines[j][:idx])
				body = strings.Join(collected, "\n")
				break
			}
			collected = append(collected, lines[j])
		}
		if body == "" {
			body = strings.Join(collected, "\n")
		}
	}

	doc := strings.TrimSpace(strings.Split(strings.TrimSpace(body), "\n\n")[0])
	if doc == "" {
		return ""
	}
	if !strings.HasSuffix(doc, ".") {
		doc += "."
	}
	return doc
}

// DialectSummary extracts the leading comment block of a dialect source file.
// A restated filename prefix ("reactor_demo.m" starting with "reactor demo")
// is stripped.
func DialectSummary(src []byte, filename string) string {
	var parts []string
	for _, line := range strings.Split(string(src), "\n") {
		t := strings.TrimSpace(line)
		if !strings.HasPrefix(t, "%") {
			if len(parts) > 0 || t != "" {
				break
			}
			continue
		}
		parts = append(parts, strings.TrimSpace(strings.TrimLeft(t, "%")))
	}
	doc := strings.TrimSpace(strings.Join(parts, " "))
	if doc == "" {
		return ""
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	name := strings.ToLower(strings.ReplaceAll(stem, "_", " "))
	if strings.HasPrefix(strings.ToLower(strings.ReplaceAll(doc, "_", " ")), name) {
		doc = strings.TrimSpace(doc[len(name):])
	}
	return doc
}

// Summarize fills summaries for script and dialect folders. Notebook folders
// get their summaries from the notebook pipeline, which already parses every
// document.
func (f *Folder) Summarize() {
	if f.Kind == KindNotebook {
		return
	}
	for _, cat := range f.Categories {
		for _, name := range cat.Files {
			src, err := os.ReadFile(f.FilePath(cat.Key, name))
			if err != nil {
				slog.Warn("Cannot read example for summary extraction",
					logfields.Path(name), logfields.Error(err))
				cat.Summaries[name] = ""
				continue
			}
			switch f.Kind {
			case KindScript:
				cat.Summaries[name] = ScriptSummary(src)
			case KindDialect:
				cat.Summaries[name] = DialectSummary(src, name)
			}
		}
	}
}
