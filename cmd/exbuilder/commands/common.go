package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/logfields"
	"git.home.luguber.info/inful/exbuilder/internal/metrics"
	"git.home.luguber.info/inful/exbuilder/internal/render"
	"git.home.luguber.info/inful/exbuilder/internal/repo"
	"git.home.luguber.info/inful/exbuilder/internal/state"
	"git.home.luguber.info/inful/exbuilder/internal/task"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build example pages from configured folders"`
	Discover DiscoverCmd `cmd:"" help:"Discover example files without building"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild whenever example sources change"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel respects the verbose flag and the EXBUILDER_LOG_LEVEL
// environment variable (debug|info|warn|error), flag winning.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("EXBUILDER_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// RunBuild executes one full pipeline pass: optional source repository sync,
// planning, then the incremental task run.
func RunBuild(ctx context.Context, cfg *config.Config, recorder metrics.Recorder, force bool) error {
	buildID := uuid.NewString()[:8]
	log := slog.With(logfields.BuildID(buildID))
	start := time.Now()

	root := "."
	if cfg.Source != nil {
		fetcher := repo.NewFetcher(cfg.Source.Workspace)
		checkout, err := fetcher.Sync(ctx, cfg.Source)
		if err != nil {
			return err
		}
		root = checkout
	}

	renderer := render.NewTemplateRenderer(cfg.Site.TemplatesFolder)
	planner := task.NewPlanner(cfg, renderer, root)
	plan, err := planner.Plan(ctx)
	if err != nil {
		return err
	}
	log.Info("Build plan ready",
		slog.Int("tasks", len(plan.Tasks)),
		slog.Int("folders", len(plan.Folders)))

	store, err := state.Open(cfg.StateFile)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := task.NewRunner(store, recorder, force)
	results, err := runner.Run(ctx, plan.Tasks)
	if err != nil {
		return err
	}
	log.Info("Build finished",
		slog.Int("executed", results.Executed),
		slog.Int("skipped", results.Skipped),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}
