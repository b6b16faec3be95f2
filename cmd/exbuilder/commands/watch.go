package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/logfields"
	"git.home.luguber.info/inful/exbuilder/internal/metrics"
	"git.home.luguber.info/inful/exbuilder/internal/repo"
	"git.home.luguber.info/inful/exbuilder/internal/watch"
)

// WatchCmd rebuilds whenever example sources change, and optionally on a
// fixed interval.
type WatchCmd struct {
	Debounce time.Duration `default:"2s" help:"Quiet period before a change triggers a rebuild"`
	Every    time.Duration `help:"Also rebuild on a fixed interval (e.g. 10m)"`
	Metrics  string        `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := metrics.Recorder(metrics.NoopRecorder{})
	if w.Metrics != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: w.Metrics, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer server.Close()
		slog.Info("Serving metrics", slog.String("addr", w.Metrics))
	}

	var mu sync.Mutex
	rebuild := func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()
		if err := RunBuild(ctx, cfg, recorder, false); err != nil {
			slog.Error("Build failed", logfields.Error(err))
		}
	}

	// Initial pass; also materializes the git checkout the watcher covers.
	rebuild(ctx)

	sourceRoot := "."
	if cfg.Source != nil {
		fetcher := repo.NewFetcher(cfg.Source.Workspace)
		if sourceRoot, err = fetcher.Sync(ctx, cfg.Source); err != nil {
			return err
		}
	}
	dirs := make([]string, 0, len(cfg.Folders))
	for _, mapping := range cfg.Folders {
		dir := mapping.Source
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(sourceRoot, dir)
		}
		dirs = append(dirs, dir)
	}

	if w.Every > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(w.Every),
			gocron.NewTask(func() { rebuild(ctx) }),
			gocron.WithName("interval-rebuild"),
		)
		if err != nil {
			return fmt.Errorf("schedule interval rebuild: %w", err)
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
		slog.Info("Interval rebuild enabled", slog.Duration("every", w.Every))
	}

	watcher, err := watch.New(dirs, w.Debounce, rebuild)
	if err != nil {
		return err
	}
	slog.Info("Watching example folders", slog.Int("folders", len(dirs)))

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
