package task

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/examples"
	"git.home.luguber.info/inful/exbuilder/internal/fingerprint"
	"git.home.luguber.info/inful/exbuilder/internal/logfields"
	"git.home.luguber.info/inful/exbuilder/internal/notebook"
	"git.home.luguber.info/inful/exbuilder/internal/render"
)

// Plan is the full declarative output of one planning pass.
type Plan struct {
	Tasks   []Task
	Folders []*examples.Folder
}

// Planner walks the configured folders and produces the build plan. Notebook
// documents are rewritten and materialized into the cache as part of
// planning, so every produced task reads self-contained inputs.
type Planner struct {
	cfg      *config.Config
	renderer render.Renderer
	root     string // directory folder sources resolve against
}

// NewPlanner creates a planner. root is the directory source folders resolve
// against (the git checkout when a source repository is configured).
func NewPlanner(cfg *config.Config, renderer render.Renderer, root string) *Planner {
	return &Planner{cfg: cfg, renderer: renderer, root: root}
}

// Plan discovers every configured folder and yields its render, copy and
// index tasks.
func (p *Planner) Plan(ctx context.Context) (*Plan, error) {
	inputs, err := p.baseInputs()
	if err != nil {
		return nil, err
	}

	listingDeps, err := p.renderer.TemplateDeps(examples.ListingTemplate)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	discovery := examples.NewDiscovery(p.root)
	for _, mapping := range p.cfg.Folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		folder, err := discovery.DiscoverFolder(mapping)
		if err != nil {
			return nil, err
		}
		folder.Summarize()

		if err := p.planFolder(plan, folder, inputs, listingDeps); err != nil {
			return nil, err
		}
		plan.Folders = append(plan.Folders, folder)
	}
	return plan, nil
}

// baseInputs assembles the fingerprint inputs shared by every task: config
// snapshot, template hook digests, translatable context values for the
// default language, and the navigation links.
func (p *Planner) baseInputs() (fingerprint.Inputs, error) {
	snapshot, err := p.cfg.Snapshot()
	if err != nil {
		return fingerprint.Inputs{}, err
	}

	hooks := map[string]string{}
	names := []string{examples.ListingTemplate}
	for _, mapping := range p.cfg.Folders {
		kind, err := examples.KindFromDest(mapping.Dest)
		if err != nil {
			return fingerprint.Inputs{}, err
		}
		names = append(names, kind.IndexTemplate())
	}
	for _, name := range names {
		if _, done := hooks[name]; done {
			continue
		}
		deps, err := p.renderer.TemplateDeps(name)
		if err != nil {
			return fingerprint.Inputs{}, err
		}
		digest, err := fingerprint.DigestFiles(deps...)
		if err != nil {
			return fingerprint.Inputs{}, err
		}
		hooks[name] = digest
	}

	navLinks := make([]string, 0, len(p.cfg.Site.NavigationLinks))
	for _, l := range p.cfg.Site.NavigationLinks {
		navLinks = append(navLinks, l.Name+"|"+l.URL)
	}

	return fingerprint.Inputs{
		ConfigSnapshot: snapshot,
		TemplateHooks:  hooks,
		Lang:           p.cfg.Site.DefaultLang,
		Title:          p.cfg.Site.Title,
		NavLinks:       navLinks,
	}, nil
}

func (p *Planner) planFolder(plan *Plan, folder *examples.Folder, inputs fingerprint.Inputs, listingDeps []string) error {
	sourceFP, err := inputs.Source()
	if err != nil {
		return err
	}

	slog.Debug("Planning folder",
		logfields.Folder(folder.Mapping.Source),
		logfields.Kind(folder.Kind.String()))

	for _, cat := range folder.Categories {
		for _, name := range cat.Files {
			srcPath := folder.FilePath(cat.Key, name)

			listingSrc := srcPath
			copyDeps := []string{srcPath}
			if folder.Kind == examples.KindNotebook {
				cachePath, err := p.materializeNotebook(folder, cat, name, srcPath)
				if err != nil {
					return err
				}
				listingSrc = cachePath
				copyDeps = append(copyDeps, cachePath)
			}

			outHTML := p.outPath(folder, cat.Key, name+".html")
			plan.Tasks = append(plan.Tasks, Task{
				Name:        outHTML,
				Action:      ActionRender,
				FileDeps:    append(append([]string(nil), listingDeps...), listingSrc),
				Targets:     []string{outHTML},
				Fingerprint: sourceFP,
				Run:         p.renderListing(folder, cat.Key, name, listingSrc, outHTML),
			})

			outRaw := p.outPath(folder, cat.Key, name)
			src := srcPath
			plan.Tasks = append(plan.Tasks, Task{
				Name:        outRaw,
				Action:      ActionCopy,
				FileDeps:    copyDeps,
				Targets:     []string{outRaw},
				Fingerprint: sourceFP,
				Run:         func(context.Context) error { return CopyFile(src, outRaw) },
			})
		}
	}

	folderFP, err := inputs.Folder(folder.RelFiles(), folder.CategoryKeys())
	if err != nil {
		return err
	}
	indexDeps, err := p.renderer.TemplateDeps(folder.Kind.IndexTemplate())
	if err != nil {
		return err
	}
	outIndex := filepath.Join(p.cfg.Site.OutputFolder, folder.Mapping.Dest, p.cfg.Site.IndexFile)
	plan.Tasks = append(plan.Tasks, Task{
		Name:        outIndex,
		Action:      ActionIndex,
		FileDeps:    indexDeps,
		Targets:     []string{outIndex},
		Fingerprint: folderFP,
		Run:         p.renderIndex(folder, outIndex),
	})
	return nil
}

// materializeNotebook rewrites a notebook into its self-contained cache copy
// and records its summary. An unreadable embedded image fails the file.
func (p *Planner) materializeNotebook(folder *examples.Folder, cat *examples.Category, name, srcPath string) (string, error) {
	nb, err := notebook.ParseFile(srcPath)
	if err != nil {
		return "", err
	}
	cat.Summaries[name] = nb.Summary()

	embedded, err := notebook.Embed(nb, filepath.Dir(srcPath))
	if err != nil {
		return "", fmt.Errorf("embed images in %s: %w", srcPath, err)
	}

	cachePath := notebook.CachePath(p.cfg.Site.CacheFolder, folder.Mapping.Dest, cat.Key, name)
	if err := embedded.WriteFile(cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

func (p *Planner) outPath(folder *examples.Folder, category, name string) string {
	if folder.Kind == examples.KindDialect {
		return filepath.Join(p.cfg.Site.OutputFolder, folder.Mapping.Dest, name)
	}
	return filepath.Join(p.cfg.Site.OutputFolder, folder.Mapping.Dest, category, name)
}

func (p *Planner) permalink(folder *examples.Folder, category, name string) string {
	if folder.Kind == examples.KindDialect {
		return path.Join(folder.Mapping.Dest, name)
	}
	return path.Join(folder.Mapping.Dest, category, name)
}

// renderListing returns the action producing one example's HTML page.
func (p *Planner) renderListing(folder *examples.Folder, category, name, listingSrc, outPath string) func(context.Context) error {
	return func(context.Context) error {
		permalink := p.permalink(folder, category, name+".html")
		pageCtx := map[string]any{
			"title":       name,
			"lang":        p.cfg.Site.DefaultLang,
			"description": name,
			"pagekind":    []string{"example"},
			"permalink":   permalink,
			"source_link": strings.TrimSuffix(path.Base(permalink), ".html"),
		}

		code, needsNotebookCSS, err := p.listingCode(folder.Kind, name, listingSrc)
		if err != nil {
			return err
		}
		pageCtx["code"] = template.HTML(code)
		if needsNotebookCSS {
			pageCtx["needs_notebook_css"] = true
		}

		return p.renderer.Render(examples.ListingTemplate, outPath, pageCtx)
	}
}

func (p *Planner) listingCode(kind examples.Kind, name, src string) (string, bool, error) {
	switch kind {
	case examples.KindNotebook:
		nb, err := notebook.ParseFile(src)
		if err != nil {
			return "", false, err
		}
		code, err := render.NotebookHTML(nb)
		return code, true, err
	case examples.KindDialect:
		data, err := os.ReadFile(src)
		if err != nil {
			return "", false, err
		}
		code, err := render.HighlightDialect(data)
		return code, false, err
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return "", false, err
		}
		code, err := render.Highlight(name, data)
		return code, false, err
	}
}

// IndexHeader is one category section of an index page. Files come
// pre-chunked into rows of three; the row size is a layout decision that
// stays out of discovery.
type IndexHeader struct {
	Key       string
	Name      string
	Summaries map[string]string
	FileRows  [][]string
}

const indexRowSize = 3

// renderIndex returns the action producing the folder's index page.
func (p *Planner) renderIndex(folder *examples.Folder, outPath string) func(context.Context) error {
	return func(context.Context) error {
		headers := make([]IndexHeader, 0, len(folder.Categories))
		for _, cat := range folder.Categories {
			headers = append(headers, IndexHeader{
				Key:       cat.Key,
				Name:      cat.Name,
				Summaries: cat.Summaries,
				FileRows:  chunk(cat.Files, indexRowSize),
			})
		}

		permalink := path.Join(folder.Mapping.Dest, p.cfg.Site.IndexFile)
		if p.cfg.Site.StripIndexes {
			permalink = folder.Mapping.Dest + "/"
		}

		caser := cases.Title(language.Make(p.cfg.Site.DefaultLang))
		title := caser.String(fmt.Sprintf("%s examples", folder.Kind))

		pageCtx := map[string]any{
			"headers":     headers,
			"lang":        p.cfg.Site.DefaultLang,
			"pagekind":    []string{"example"},
			"permalink":   permalink,
			"title":       title,
			"description": title,
		}
		return p.renderer.Render(folder.Kind.IndexTemplate(), outPath, pageCtx)
	}
}

// chunk yields successive n-sized rows of files.
func chunk(files []string, n int) [][]string {
	var rows [][]string
	for i := 0; i < len(files); i += n {
		end := i + n
		if end > len(files) {
			end = len(files)
		}
		rows = append(rows, files[i:end])
	}
	return rows
}
