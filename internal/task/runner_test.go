package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exbuilder/internal/config"
	"git.home.luguber.info/inful/exbuilder/internal/state"
)

func testTask(t *testing.T, name string, runs *int) Task {
	t.Helper()
	dir := t.TempDir()
	dep := filepath.Join(dir, "dep.txt")
	require.NoError(t, os.WriteFile(dep, []byte("input"), 0o644))
	target := filepath.Join(dir, "out", name)

	return Task{
		Name:        name,
		Action:      ActionRender,
		FileDeps:    []string{dep},
		Targets:     []string{target},
		Fingerprint: "fp-" + name,
		Run: func(context.Context) error {
			*runs++
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			return os.WriteFile(target, []byte("built"), 0o644)
		},
	}
}

func TestRunnerSkipsUnchangedTasks(t *testing.T) {
	ctx := context.Background()
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	runs := 0
	tasks := []Task{testTask(t, "a.html", &runs), testTask(t, "b.html", &runs)}

	runner := NewRunner(store, nil, false)
	results, err := runner.Run(ctx, tasks)
	require.NoError(t, err)
	assert.Equal(t, 2, results.Executed)
	assert.Equal(t, 0, results.Skipped)
	assert.Equal(t, 2, runs)

	// Nothing changed: everything skips.
	results, err = runner.Run(ctx, tasks)
	require.NoError(t, err)
	assert.Equal(t, 0, results.Executed)
	assert.Equal(t, 2, results.Skipped)
	assert.Equal(t, 2, runs)
}

func TestRunnerForceRebuilds(t *testing.T) {
	ctx := context.Background()
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	runs := 0
	tasks := []Task{testTask(t, "a.html", &runs)}

	_, err = NewRunner(store, nil, false).Run(ctx, tasks)
	require.NoError(t, err)
	_, err = NewRunner(store, nil, true).Run(ctx, tasks)
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}

func TestRunnerFingerprintChangeRebuilds(t *testing.T) {
	ctx := context.Background()
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	runs := 0
	task := testTask(t, "a.html", &runs)

	_, err = NewRunner(store, nil, false).Run(ctx, []Task{task})
	require.NoError(t, err)

	task.Fingerprint = "different"
	results, err := NewRunner(store, nil, false).Run(ctx, []Task{task})
	require.NoError(t, err)
	assert.Equal(t, 1, results.Executed)
	assert.Equal(t, 2, runs)
}

func TestRunnerAbortsOnFailure(t *testing.T) {
	ctx := context.Background()
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	runs := 0
	boom := errors.New("boom")
	dir := t.TempDir()
	dep := filepath.Join(dir, "dep.txt")
	require.NoError(t, os.WriteFile(dep, []byte("x"), 0o644))

	tasks := []Task{
		{
			Name:        "fails.html",
			Action:      ActionRender,
			FileDeps:    []string{dep},
			Targets:     []string{filepath.Join(dir, "fails.html")},
			Fingerprint: "fp",
			Run:         func(context.Context) error { return boom },
		},
		testTask(t, "never.html", &runs),
	}

	_, err = NewRunner(store, nil, false).Run(ctx, tasks)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, runs, "tasks after a failure must not run")
}

func TestRunnerMissingDependencyFails(t *testing.T) {
	ctx := context.Background()
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	tasks := []Task{{
		Name:        "a.html",
		Action:      ActionRender,
		FileDeps:    []string{filepath.Join(t.TempDir(), "missing.py")},
		Targets:     []string{filepath.Join(t.TempDir(), "a.html")},
		Fingerprint: "fp",
		Run:         func(context.Context) error { return nil },
	}}

	_, err = NewRunner(store, nil, false).Run(ctx, tasks)
	require.Error(t, err)
}

// A rebuild over unchanged sources must skip every task, including the
// notebook ones whose listing and copy tasks depend on the cache copy
// materialized during planning.
func TestRunnerSkipsUnchangedNotebookBuild(t *testing.T) {
	ctx := context.Background()
	cfg, renderer, root := newFixture(t)
	writeFixtureFile(t, filepath.Join(root, "nb", "thermo", "flame.ipynb"),
		`{"cells": [{"cell_type": "markdown", "source": ["# Flame Demo\n"]}]}`)
	cfg.Folders = []config.FolderMapping{{Source: "nb", Dest: "examples/jupyter"}}

	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	runner := NewRunner(store, nil, false)

	plan, err := NewPlanner(cfg, renderer, root).Plan(ctx)
	require.NoError(t, err)
	results, err := runner.Run(ctx, plan.Tasks)
	require.NoError(t, err)
	assert.Equal(t, 3, results.Executed)

	// Second build: fresh planning pass, nothing changed on disk.
	plan, err = NewPlanner(cfg, renderer, root).Plan(ctx)
	require.NoError(t, err)
	results, err = runner.Run(ctx, plan.Tasks)
	require.NoError(t, err)
	assert.Equal(t, 0, results.Executed, "unchanged notebook tasks must skip")
	assert.Equal(t, 3, results.Skipped)
}
