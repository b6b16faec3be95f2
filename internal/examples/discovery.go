package examples

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/logfields"
)

// Suffixes and names that never count as examples.
var (
	ignoredSuffixes = map[string]struct{}{
		".pyc":               {},
		".pyo":               {},
		".cti":               {},
		".dat":               {},
		".ipynb_checkpoints": {},
	}
	ignoredNames = map[string]struct{}{
		".DS_Store":          {},
		".ipynb_checkpoints": {},
	}
)

// Category groups the examples of one topic within a folder. Files are kept
// in natural sort order so "ex2" lists before "ex10".
type Category struct {
	Key       string
	Name      string
	Files     []string          // file names, natural-sorted
	Summaries map[string]string // file name -> one-line summary
}

// Folder is one discovered source folder with its categories populated.
type Folder struct {
	Mapping    config.FolderMapping
	Kind       Kind
	SourceDir  string // resolved absolute source directory
	Categories []*Category
}

// Category returns the category with the given key, or nil.
func (f *Folder) Category(key string) *Category {
	for _, c := range f.Categories {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// CategoryKeys returns the ordered category keys.
func (f *Folder) CategoryKeys() []string {
	keys := make([]string, 0, len(f.Categories))
	for _, c := range f.Categories {
		keys = append(keys, c.Key)
	}
	return keys
}

// RelFiles returns every discovered file as "<category>/<name>" (or bare name
// for the flat dialect layout), in listing order. The slice feeds the
// folder-scoped fingerprint, so ordering is deterministic.
func (f *Folder) RelFiles() []string {
	var rel []string
	for _, c := range f.Categories {
		for _, name := range c.Files {
			if c.Key == flatCategoryKey && f.Kind == KindDialect {
				rel = append(rel, name)
				continue
			}
			rel = append(rel, c.Key+"/"+name)
		}
	}
	return rel
}

// FilePath resolves a discovered file back to its absolute source path.
func (f *Folder) FilePath(category, name string) string {
	if f.Kind == KindDialect {
		return filepath.Join(f.SourceDir, name)
	}
	return filepath.Join(f.SourceDir, category, name)
}

const flatCategoryKey = "examples"

// Discovery walks example folders under a common root directory.
type Discovery struct {
	root string
}

// NewDiscovery creates a discovery rooted at the given directory. Folder
// mapping sources are resolved relative to it.
func NewDiscovery(root string) *Discovery { return &Discovery{root: root} }

// DiscoverFolder walks one configured folder mapping and returns its
// categories with natural-sorted member files. Summaries are left empty; they
// are filled by Summarize or by the notebook pipeline.
func (d *Discovery) DiscoverFolder(mapping config.FolderMapping) (*Folder, error) {
	kind, err := KindFromDest(mapping.Dest)
	if err != nil {
		return nil, err
	}

	sourceDir := mapping.Source
	if !filepath.IsAbs(sourceDir) {
		sourceDir = filepath.Join(d.root, sourceDir)
	}
	sourceDir, err = filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source folder %s: %w", mapping.Source, err)
	}
	if _, err := os.Stat(sourceDir); err != nil {
		return nil, fmt.Errorf("source folder %s: %w", mapping.Source, err)
	}

	folder := &Folder{Mapping: mapping, Kind: kind, SourceDir: sourceDir}

	slog.Debug("Discovering examples",
		logfields.Folder(mapping.Source),
		logfields.Kind(kind.String()))

	if kind == KindDialect {
		cat, err := d.discoverFlat(sourceDir)
		if err != nil {
			return nil, err
		}
		folder.Categories = []*Category{cat}
		return folder, nil
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source folder %s: %w", sourceDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		cat, err := d.discoverCategory(sourceDir, entry.Name(), kind)
		if err != nil {
			return nil, err
		}
		if len(cat.Files) == 0 {
			continue
		}
		folder.Categories = append(folder.Categories, cat)
	}

	sort.Slice(folder.Categories, func(i, j int) bool {
		return folder.Categories[i].Key < folder.Categories[j].Key
	})
	return folder, nil
}

func (d *Discovery) discoverCategory(sourceDir, key string, kind Kind) (*Category, error) {
	cat := &Category{Key: key, Name: displayName(key), Summaries: map[string]string{}}

	entries, err := os.ReadDir(filepath.Join(sourceDir, key))
	if err != nil {
		return nil, fmt.Errorf("read category %s: %w", key, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		if kind == KindScript && filepath.Ext(entry.Name()) != ".py" {
			continue
		}
		cat.Files = append(cat.Files, entry.Name())
	}
	sortFiles(cat.Files)
	return cat, nil
}

// discoverFlat handles the dialect layout: files live directly in the folder,
// in one implicit category. Tutorial, test and README files are not examples.
func (d *Discovery) discoverFlat(sourceDir string) (*Category, error) {
	cat := &Category{Key: flatCategoryKey, Name: displayName(flatCategoryKey), Summaries: map[string]string{}}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source folder %s: %w", sourceDir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || skipName(name) {
			continue
		}
		if name == "README" || strings.Contains(name, "tut") || strings.Contains(name, "test") {
			continue
		}
		cat.Files = append(cat.Files, name)
	}
	sortFiles(cat.Files)
	return cat, nil
}

// sortFiles orders file names naturally, ignoring case, so "ex2" lists before
// "ex10" and "Zebra" does not jump ahead of "alpha".
func sortFiles(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return natural.Less(strings.ToLower(names[i]), strings.ToLower(names[j]))
	})
}

func skipName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, ok := ignoredNames[name]; ok {
		return true
	}
	_, ok := ignoredSuffixes[filepath.Ext(name)]
	return ok
}
