// Package metrics defines observability hooks for the build.
package metrics

import "time"

// ResultLabel enumerates task result categories for counters.
type ResultLabel string

const (
	ResultExecuted ResultLabel = "executed"
	ResultSkipped  ResultLabel = "skipped"
	ResultFailed   ResultLabel = "failed"
)

// Recorder defines observability hooks for build and task metrics.
// Implementations may forward to Prometheus or elsewhere. NoopRecorder is the
// default when metrics are not configured.
type Recorder interface {
	IncTask(action string, result ResultLabel)
	ObserveTaskDuration(action string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	SetTasksPlanned(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncTask(string, ResultLabel)               {}
func (NoopRecorder) ObserveTaskDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) SetTasksPlanned(int)                       {}
