package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the configured output folder"`
	Force  bool   `help:"Rebuild everything, ignoring incremental state"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if b.Output != "" {
		cfg.Site.OutputFolder = b.Output
	}
	return RunBuild(context.Background(), cfg, metrics.NoopRecorder{}, b.Force)
}
