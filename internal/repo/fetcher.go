// Package repo syncs the optional examples repository into the workspace
// before discovery runs.
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/logfields"
)

// Fetcher clones or updates the configured examples repository.
type Fetcher struct {
	workspace string
}

// NewFetcher creates a fetcher placing checkouts under the given workspace
// directory.
func NewFetcher(workspace string) *Fetcher { return &Fetcher{workspace: workspace} }

// Sync ensures a current checkout of the source repository and returns its
// path. Folder mapping sources resolve relative to it.
func (f *Fetcher) Sync(ctx context.Context, src *config.SourceConfig) (string, error) {
	checkout := filepath.Join(f.workspace, repoName(src.URL))
	ref := plumbing.ReferenceName("refs/heads/" + src.Branch)

	if _, err := os.Stat(filepath.Join(checkout, ".git")); os.IsNotExist(err) {
		return checkout, f.clone(ctx, src, checkout, ref)
	}
	return checkout, f.update(ctx, src, checkout, ref)
}

func (f *Fetcher) clone(ctx context.Context, src *config.SourceConfig, checkout string, ref plumbing.ReferenceName) error {
	slog.Info("Cloning examples repository",
		slog.String("url", src.URL),
		slog.String("branch", src.Branch),
		logfields.Path(checkout))

	if err := os.MkdirAll(f.workspace, 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	repository, err := git.PlainCloneContext(ctx, checkout, false, &git.CloneOptions{
		URL:           src.URL,
		ReferenceName: ref,
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", src.URL, err)
	}
	logHead(repository)
	return nil
}

func (f *Fetcher) update(ctx context.Context, src *config.SourceConfig, checkout string, ref plumbing.ReferenceName) error {
	repository, err := git.PlainOpen(checkout)
	if err != nil {
		return fmt.Errorf("open checkout %s: %w", checkout, err)
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("worktree of %s: %w", checkout, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		ReferenceName: ref,
		SingleBranch:  true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("update %s: %w", src.URL, err)
	}
	logHead(repository)
	return nil
}

func logHead(repository *git.Repository) {
	if ref, err := repository.Head(); err == nil {
		slog.Info("Examples repository ready", slog.String("commit", ref.Hash().String()[:8]))
	}
}

func repoName(url string) string {
	name := strings.TrimSuffix(path.Base(url), ".git")
	if name == "" || name == "." || name == "/" {
		return "examples"
	}
	return name
}
