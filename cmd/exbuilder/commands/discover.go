package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/examples"
	"git.home.luguber.info/inful/exbuilder/internal/notebook"
	"git.home.luguber.info/inful/exbuilder/internal/repo"
)

// DiscoverCmd lists discovered examples without rendering anything.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sourceRoot := "."
	if cfg.Source != nil {
		fetcher := repo.NewFetcher(cfg.Source.Workspace)
		if sourceRoot, err = fetcher.Sync(context.Background(), cfg.Source); err != nil {
			return err
		}
	}

	discovery := examples.NewDiscovery(sourceRoot)
	for _, mapping := range cfg.Folders {
		folder, err := discovery.DiscoverFolder(mapping)
		if err != nil {
			return err
		}
		folder.Summarize()

		fmt.Printf("%s -> %s (%s)\n", mapping.Source, mapping.Dest, folder.Kind)
		for _, cat := range folder.Categories {
			fmt.Printf("  %s (%s)\n", cat.Name, cat.Key)
			for _, name := range cat.Files {
				summary := cat.Summaries[name]
				if folder.Kind == examples.KindNotebook {
					if nb, err := notebook.ParseFile(folder.FilePath(cat.Key, name)); err == nil {
						summary = nb.Summary()
					}
				}
				fmt.Printf("    %-40s %s\n", name, summary)
			}
		}
	}
	return nil
}
