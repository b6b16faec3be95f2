package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/exbuilder/internal/logfields"
	"git.home.luguber.info/inful/exbuilder/internal/metrics"
	"git.home.luguber.info/inful/exbuilder/internal/state"
)

// Runner executes a plan sequentially, consulting the state store to skip
// targets whose fingerprint and dependencies are unchanged.
type Runner struct {
	store    *state.Store
	recorder metrics.Recorder
	force    bool
}

// NewRunner creates a runner. force disables incremental skipping.
func NewRunner(store *state.Store, recorder metrics.Recorder, force bool) *Runner {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{store: store, recorder: recorder, force: force}
}

// Results summarizes a run.
type Results struct {
	Executed int
	Skipped  int
}

// Run executes every task in order. The first failing task aborts the run;
// its partial outputs are not recorded as current.
func (r *Runner) Run(ctx context.Context, tasks []Task) (Results, error) {
	start := time.Now()
	defer func() { r.recorder.ObserveBuildDuration(time.Since(start)) }()
	r.recorder.SetTasksPlanned(len(tasks))

	var results Results
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		stamps, err := state.StampDeps(t.FileDeps)
		if err != nil {
			r.recorder.IncTask(string(t.Action), metrics.ResultFailed)
			return results, fmt.Errorf("task %s: %w", t.Name, err)
		}

		if !r.force {
			current, err := r.upToDate(ctx, t, stamps)
			if err != nil {
				return results, err
			}
			if current {
				slog.Debug("Task up to date",
					logfields.Task(t.Name), logfields.Action(string(t.Action)))
				r.recorder.IncTask(string(t.Action), metrics.ResultSkipped)
				results.Skipped++
				continue
			}
		}

		taskStart := time.Now()
		if err := t.Run(ctx); err != nil {
			r.recorder.IncTask(string(t.Action), metrics.ResultFailed)
			return results, fmt.Errorf("task %s: %w", t.Name, err)
		}
		r.recorder.ObserveTaskDuration(string(t.Action), time.Since(taskStart))
		r.recorder.IncTask(string(t.Action), metrics.ResultExecuted)
		results.Executed++

		for _, target := range t.Targets {
			if err := r.store.Record(ctx, target, t.Fingerprint, stamps); err != nil {
				return results, err
			}
		}
		slog.Info("Task completed",
			logfields.Task(t.Name),
			logfields.Action(string(t.Action)),
			logfields.DurationMS(float64(time.Since(taskStart).Milliseconds())))
	}
	return results, nil
}

func (r *Runner) upToDate(ctx context.Context, t Task, stamps []state.DepStamp) (bool, error) {
	for _, target := range t.Targets {
		current, err := r.store.UpToDate(ctx, target, t.Fingerprint, stamps)
		if err != nil {
			return false, err
		}
		if !current {
			return false, nil
		}
	}
	return true, nil
}
